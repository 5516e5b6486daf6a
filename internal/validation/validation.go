// Package validation holds the small, composable validators the fleet's
// services use ahead of business logic: string length/required checks,
// coordinate ranges, numeric ranges.
package validation

import "fmt"

// StringValidator validates string fields.
type StringValidator struct{}

func NewStringValidator() *StringValidator { return &StringValidator{} }

func (v *StringValidator) ValidateRequired(value, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

func (v *StringValidator) ValidateLength(value, fieldName string, minLen, maxLen int) error {
	length := len(value)
	if minLen > 0 && length < minLen {
		return fmt.Errorf("%s must be at least %d characters, got %d", fieldName, minLen, length)
	}
	if maxLen > 0 && length > maxLen {
		return fmt.Errorf("%s must be at most %d characters, got %d", fieldName, maxLen, length)
	}
	return nil
}

// CoordinateValidator validates latitude/longitude pairs.
type CoordinateValidator struct{}

func NewCoordinateValidator() *CoordinateValidator { return &CoordinateValidator{} }

func (v *CoordinateValidator) ValidateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", lat)
	}
	return nil
}

func (v *CoordinateValidator) ValidateLongitude(lng float64) error {
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", lng)
	}
	return nil
}

func (v *CoordinateValidator) ValidateCoordinates(lat, lng float64) error {
	if err := v.ValidateLatitude(lat); err != nil {
		return err
	}
	return v.ValidateLongitude(lng)
}

// RangeValidator validates that a float falls within an inclusive range.
type RangeValidator struct{}

func NewRangeValidator() *RangeValidator { return &RangeValidator{} }

func (v *RangeValidator) ValidateFloatRange(value float64, fieldName string, min, max float64) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %g and %g, got %g", fieldName, min, max, value)
	}
	return nil
}

// TripInput mirrors domain.TripInput's shape without importing it, so
// this package stays dependency-free and reusable ahead of any domain
// type the caller wants validated.
type TripInput struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleUsedHours  float64
}

// ValidateTripInput checks that all three locations are present and at
// most 200 bytes long, and that cycle hours used falls within [0, 69],
// leaving at least one hour of the 70-hour/8-day cycle.
func ValidateTripInput(in TripInput) error {
	sv := NewStringValidator()
	rv := NewRangeValidator()

	for _, f := range []struct {
		name  string
		value string
	}{
		{"current_location", in.CurrentLocation},
		{"pickup_location", in.PickupLocation},
		{"dropoff_location", in.DropoffLocation},
	} {
		if err := sv.ValidateRequired(f.value, f.name); err != nil {
			return err
		}
		if err := sv.ValidateLength(f.value, f.name, 1, 200); err != nil {
			return err
		}
	}

	return rv.ValidateFloatRange(in.CycleUsedHours, "cycle_used_hours", 0, 69)
}
