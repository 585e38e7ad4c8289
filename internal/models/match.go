package models

import "time"

const (
	MatchStatusPending  = "PENDING"
	MatchStatusAccepted = "ACCEPTED"
	MatchStatusRejected = "REJECTED"
)

// Match is a directed interaction proposal anchored at leg granularity.
// FlightNumber and DepartureTime form the dedup key for the user pair.
type Match struct {
	ID            int64     `json:"id"`
	SenderID      int64     `json:"sender_id"`
	ReceiverID    int64     `json:"receiver_id"`
	SenderLegID   int64     `json:"sender_leg_id"`
	ReceiverLegID int64     `json:"receiver_leg_id"`
	FlightNumber  string    `json:"flight_number"`
	DepartureTime time.Time `json:"departure_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CandidateLeg is a discovery hit: another traveler's leg plus its owner.
type CandidateLeg struct {
	Leg  JourneyLeg  `json:"leg"`
	User UserSummary `json:"user"`
}

// PotentialMatch is one entry of leg-level discovery, collapsed to one per
// counterpart user.
type PotentialMatch struct {
	User UserSummary `json:"user"`
	Leg  JourneyLeg  `json:"leg"`
}

type SameFlightMatch struct {
	MyLeg    JourneyLeg  `json:"my_leg"`
	OtherLeg JourneyLeg  `json:"other_leg"`
	User     UserSummary `json:"user"`
}

type LayoverMatch struct {
	MyLeg          JourneyLeg  `json:"my_leg"`
	OtherLeg       JourneyLeg  `json:"other_leg"`
	User           UserSummary `json:"user"`
	OverlapMinutes int         `json:"overlap_minutes"`
}

// JourneyMatchResults keeps the two rule families separate so callers can
// present both relationship types per leg.
type JourneyMatchResults struct {
	SameFlightMatches []SameFlightMatch `json:"same_flight_matches"`
	LayoverMatches    []LayoverMatch    `json:"layover_matches"`
}
