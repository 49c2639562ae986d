package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusOnTime    FlightStatus = "ontime"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusDelayed, FlightStatusCancelled, FlightStatusOnTime:
		return true
	}
	return false
}

type FlightType string

const (
	FlightTypeDomestic      FlightType = "domestic"
	FlightTypeInternational FlightType = "international"
)

func (t FlightType) Valid() bool {
	return t == FlightTypeDomestic || t == FlightTypeInternational
}

// DefaultTotalSeats is the capacity given to a flight created without one.
const DefaultTotalSeats = 180

type Flight struct {
	ID             int64        `json:"id"`
	FlightNumber   string       `json:"flightNumber"`
	Airline        string       `json:"airline"`
	DepartureCity  string       `json:"departureCity"`
	ArrivalCity    string       `json:"arrivalCity"`
	DepartureDate  string       `json:"departureDate"`
	DepartureTime  string       `json:"departureTime"`
	ArrivalTime    string       `json:"arrivalTime"`
	Duration       string       `json:"duration"`
	FlightType     FlightType   `json:"flightType"`
	Status         FlightStatus `json:"status"`
	TotalSeats     int          `json:"totalSeats"`
	AvailableSeats int          `json:"availableSeats"`
	Price          Money        `json:"price"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// SoldSeats is the number of seats held by confirmed or pending bookings.
func (f *Flight) SoldSeats() int {
	return f.TotalSeats - f.AvailableSeats
}
