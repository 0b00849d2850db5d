package customer

import (
	"regexp"
	"strings"

	"github.com/agency/backend/internal/domain/shared"
)

// Source values describe how a customer found the agency.
const (
	SourceWalkIn   = "walk_in"
	SourceReferral = "referral"
	SourceSocial   = "social_media"
	SourceWebsite  = "website"
	SourceImport   = "import"
	SourceOther    = "other"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CustomerDetails holds the editable fields of a customer
type CustomerDetails struct {
	Name    string
	Phone   string
	Email   string
	Company string
	Address string
	Notes   string
	Source  string
}

// Customer is a client of the agency
type Customer struct {
	shared.BaseEntity
	Name    string
	Phone   string // digits only, see shared.CleanPhoneNumber
	Email   string
	Company string
	Address string
	Notes   string
	Source  string
}

// NewCustomer creates a new customer from the given details
func NewCustomer(d CustomerDetails) (*Customer, error) {
	c := &Customer{BaseEntity: shared.NewBaseEntity()}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's editable fields
func (c *Customer) Update(d CustomerDetails) error {
	if err := c.apply(d); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *Customer) apply(d CustomerDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}

	email := strings.TrimSpace(d.Email)
	if email != "" {
		if len(email) > 200 {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if !emailPattern.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}

	phone := shared.CleanPhoneNumber(d.Phone)
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 20 digits")
	}

	source := d.Source
	if source == "" {
		source = SourceOther
	}

	c.Name = name
	c.Phone = phone
	c.Email = strings.ToLower(email)
	c.Company = strings.TrimSpace(d.Company)
	c.Address = strings.TrimSpace(d.Address)
	c.Notes = d.Notes
	c.Source = source
	return nil
}

// HasPhone reports whether the customer can be reached over WhatsApp
func (c *Customer) HasPhone() bool {
	return c.Phone != ""
}

// HasEmail reports whether the customer can be reached by email
func (c *Customer) HasEmail() bool {
	return c.Email != ""
}

// DisplayName returns the company name when set, otherwise the person's name
func (c *Customer) DisplayName() string {
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}
