package services

import "github.com/puddu045/Layo-backend/internal/models"

// ExcludedCounterparts derives the set of users the principal has already
// interacted with from their existing matches, regardless of status. A
// rejected interaction still suppresses future suggestions for the same
// flight key.
func ExcludedCounterparts(interactions []models.Match, principalID int64) map[int64]struct{} {
	excluded := make(map[int64]struct{}, len(interactions))
	for _, match := range interactions {
		switch principalID {
		case match.SenderID:
			excluded[match.ReceiverID] = struct{}{}
		case match.ReceiverID:
			excluded[match.SenderID] = struct{}{}
		}
	}
	return excluded
}
