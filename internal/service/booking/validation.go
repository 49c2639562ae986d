package booking

import (
	"strings"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/validation"
)

var passengerMessages = map[string]string{
	"fullName":       "must be at least 2 characters",
	"age":            "must be between 1 and 120",
	"gender":         "must be male, female or other",
	"email":          "must be a valid email address",
	"phoneNumber":    "must be at least 10 characters",
	"mealPreference": "must be vegetarian, non-vegetarian, vegan or none",
}

// normalizePassengers trims free-text fields and defaults the meal preference.
// It returns a copy; ids and seat assignments from the caller are dropped.
func normalizePassengers(in []domain.Passenger) []domain.Passenger {
	out := make([]domain.Passenger, len(in))
	for i, p := range in {
		p.ID, p.BookingID, p.SeatAssignment = 0, 0, ""
		p.FullName = strings.TrimSpace(p.FullName)
		p.Email = strings.TrimSpace(p.Email)
		p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
		p.Passport = strings.TrimSpace(p.Passport)
		if p.MealPreference == "" {
			p.MealPreference = domain.MealNone
		}
		out[i] = p
	}
	return out
}

// validatePassengers reports every violation, not just the first.
func validatePassengers(passengers []domain.Passenger) []domain.FieldError {
	var fields []domain.FieldError
	for i, p := range passengers {
		for _, fe := range validation.Struct(p) {
			msg, ok := passengerMessages[fe.Field()]
			if !ok {
				msg = "failed the " + fe.Tag() + " rule"
			}
			fields = append(fields, domain.FieldError{Index: i + 1, Field: fe.Field(), Message: msg})
		}
	}
	return fields
}
