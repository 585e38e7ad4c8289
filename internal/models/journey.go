package models

import "time"

type Journey struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	JourneyType      string       `json:"journey_type"`
	FlightNumber     string       `json:"flight_number"`
	DepartureAirport string       `json:"departure_airport"`
	ArrivalAirport   string       `json:"arrival_airport"`
	DepartureTime    time.Time    `json:"departure_time"`
	ArrivalTime      time.Time    `json:"arrival_time"`
	CreatedAt        time.Time    `json:"created_at"`
	Legs             []JourneyLeg `json:"legs,omitempty"`
}

// JourneyLeg is one flight segment. LayoverMinutes is the gap to the next
// leg's departure and is nil on the final leg.
type JourneyLeg struct {
	ID               int64     `json:"id"`
	JourneyID        int64     `json:"journey_id"`
	Sequence         int       `json:"sequence"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	LayoverMinutes   *int      `json:"layover_minutes"`
	CreatedAt        time.Time `json:"created_at"`
}
