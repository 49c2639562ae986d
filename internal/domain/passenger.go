package domain

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

type MealPreference string

const (
	MealVegetarian    MealPreference = "vegetarian"
	MealNonVegetarian MealPreference = "non-vegetarian"
	MealVegan         MealPreference = "vegan"
	MealNone          MealPreference = "none"
)

func (m MealPreference) Valid() bool {
	switch m {
	case MealVegetarian, MealNonVegetarian, MealVegan, MealNone:
		return true
	}
	return false
}

// Passenger is immutable once its booking is created. The binding rules are
// checked after free-text fields are trimmed.
type Passenger struct {
	ID                int64          `json:"id"`
	BookingID         int64          `json:"bookingId"`
	FullName          string         `json:"fullName" binding:"min=2"`
	Age               int            `json:"age" binding:"min=1,max=120"`
	Gender            Gender         `json:"gender" binding:"oneof=male female other"`
	Email             string         `json:"email" binding:"email"`
	PhoneNumber       string         `json:"phoneNumber" binding:"min=10"`
	Passport          string         `json:"passport,omitempty"`
	MealPreference    MealPreference `json:"mealPreference" binding:"omitempty,oneof=vegetarian non-vegetarian vegan none"`
	SpecialAssistance bool           `json:"specialAssistance"`
	SeatAssignment    string         `json:"seatAssignment"`
}
