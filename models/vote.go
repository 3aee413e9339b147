package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidVote is returned when a vote direction is outside {+1, -1}.
var ErrInvalidVote = errors.New("vote direction must be 1 or -1")

// VoteRecord associates a voter with the direction they voted.
type VoteRecord struct {
	Voter primitive.ObjectID `bson:"voter" json:"voter"`
	Value int                `bson:"value" json:"value"`
}

// ApplyVote upserts the voter's direction into the record set and returns the
// new set together with the recomputed tally.
//
// At most one record exists per voter. Voting again in the same direction is a
// no-op for the tally; voting in the opposite direction replaces the record,
// moving the tally by two. An invalid direction leaves the records untouched.
func ApplyVote(records []VoteRecord, voter primitive.ObjectID, direction int) ([]VoteRecord, int, error) {
	if direction != 1 && direction != -1 {
		return records, TallyVotes(records), ErrInvalidVote
	}

	out := make([]VoteRecord, 0, len(records)+1)
	for _, r := range records {
		if r.Voter != voter {
			out = append(out, r)
		}
	}
	out = append(out, VoteRecord{Voter: voter, Value: direction})

	return out, TallyVotes(out), nil
}

// TallyVotes recomputes the tally as the sum of stored directions. The tally
// persisted on posts and comments is always derived this way so it cannot
// drift from the voter set.
func TallyVotes(records []VoteRecord) int {
	total := 0
	for _, r := range records {
		total += r.Value
	}
	return total
}
