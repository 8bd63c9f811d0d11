package models

import (
	"errors"
	"fmt"
)

// Validation errors returned by the guard functions below.
var (
	ErrInvalidCurrency = errors.New("currency must be 3 uppercase letters")
	ErrInvalidArea     = errors.New("price area must be 2-8 characters")
	ErrNotIncreasing   = errors.New("timestamps must be strictly increasing")
	ErrUnknownZone     = errors.New("unknown bidding zone")
)

// UnknownZoneError reports a zone code that is not in the zone table.
type UnknownZoneError struct {
	Code string
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownZone, e.Code)
}

func (e *UnknownZoneError) Unwrap() error { return ErrUnknownZone }

// IsValidCurrency reports whether s is exactly three ASCII uppercase letters.
func IsValidCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsValidArea reports whether a zone/area code has 2 to 8 characters.
func IsValidArea(s string) bool {
	n := len([]rune(s))
	return n >= 2 && n <= 8
}

// IsStrictlyIncreasing reports whether the sample timestamps strictly increase.
func IsStrictlyIncreasing(points []PricePoint) bool {
	for i := 1; i < len(points); i++ {
		if !points[i].Timestamp.After(points[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// ValidateForStorage runs every guard against a document about to be
// persisted under area.
func ValidateForStorage(area string, doc *PriceDocument) error {
	if !IsValidCurrency(doc.Currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, doc.Currency)
	}
	if !IsValidArea(area) {
		return fmt.Errorf("%w: %q", ErrInvalidArea, area)
	}
	if !IsStrictlyIncreasing(doc.Prices) {
		return ErrNotIncreasing
	}
	return nil
}
