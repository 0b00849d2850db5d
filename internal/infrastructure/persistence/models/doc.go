// Package models holds the GORM persistence models and their conversions
// to and from the domain types. Models never leak out of the persistence
// package; repositories return domain values.
package models
