// ABOUTME: Pharmacy domain model represents a duty pharmacy from the directory
// ABOUTME: Provides phone normalization and derived location formatting

package domain

import (
	"strconv"
	"strings"
)

// Pharmacy represents a pharmacy on emergency duty for a given rotation window.
// Instances are built once from the directory payload and never mutated.
type Pharmacy struct {
	// ID is the stable identifier assigned by the directory
	ID string `json:"id"`

	// Name is the pharmacy's display name
	Name string `json:"name"`

	// Address is the full street address
	Address string `json:"address"`

	// Phone is the contact number in international format (see NormalizePhone)
	Phone string `json:"phone"`

	// City and District are display names as the directory spells them
	City     string `json:"city"`
	District string `json:"district"`

	// Directions is free-form text describing how to reach the pharmacy
	Directions string `json:"directions"`

	// DutyStart and DutyEnd bound the duty window, as reported by the directory
	DutyStart string `json:"dutyStart"`
	DutyEnd   string `json:"dutyEnd"`

	// Latitude and Longitude are decimal degrees
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// City is a canonical city entry from the directory.
type City struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// District is a canonical district entry within a city.
type District struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Location returns the comma-joined coordinate pair, e.g. "41.0082, 28.9784".
func (p Pharmacy) Location() string {
	lat := strconv.FormatFloat(p.Latitude, 'f', -1, 64)
	lon := strconv.FormatFloat(p.Longitude, 'f', -1, 64)
	return lat + ", " + lon
}

// NormalizePhone converts a national phone number to international format.
// A single leading trunk "0" is stripped, then the country calling code is
// prepended unless the digits already carry it. No digits are ever dropped.
func NormalizePhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if digits == "" {
		return ""
	}

	digits = strings.TrimPrefix(digits, "0")

	// A full national number with the calling code is 12 digits (90 + 10).
	if strings.HasPrefix(digits, "90") && len(digits) == 12 {
		return "+" + digits
	}

	return "+90" + digits
}
