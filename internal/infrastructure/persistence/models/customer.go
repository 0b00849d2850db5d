package models

import (
	"github.com/agency/backend/internal/domain/customer"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null;index"`
	Phone   string `gorm:"type:varchar(20);index"`
	Email   string `gorm:"type:varchar(200)"`
	Company string `gorm:"type:varchar(200)"`
	Address string `gorm:"type:text"`
	Notes   string `gorm:"type:text"`
	Source  string `gorm:"type:varchar(30);not null;default:'other'"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		Company:    m.Company,
		Address:    m.Address,
		Notes:      m.Notes,
		Source:     m.Source,
	}
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Company = c.Company
	m.Address = c.Address
	m.Notes = c.Notes
	m.Source = c.Source
}

// CustomerModelFromDomain creates a new model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CustomerGroupModel is the persistence model for customer groups
type CustomerGroupModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerGroupModel) TableName() string {
	return "customer_groups"
}

// ToDomain converts the model to a domain CustomerGroup
func (m *CustomerGroupModel) ToDomain(memberCount int64) *customer.CustomerGroup {
	return &customer.CustomerGroup{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		MemberCount: memberCount,
	}
}

// FromDomain populates the model from a domain CustomerGroup
func (m *CustomerGroupModel) FromDomain(g *customer.CustomerGroup) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.Name = g.Name
	m.Description = g.Description
}

// CustomerGroupMemberModel links customers to groups
type CustomerGroupMemberModel struct {
	GroupID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (CustomerGroupMemberModel) TableName() string {
	return "customer_group_members"
}
