package votes

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
)

// BallotCookieName is the browser cookie that carries already-voted snack ids.
const BallotCookieName = "voted_snacks"

// Voter identifies who is casting a ballot. Today that is one browser's cookie
// state; an authenticated identity can implement the same interface later.
type Voter interface {
	VotedSnackIDs() []string
}

// Guard decides whether a voter may vote for a snack and records the outcome.
// The cookie implementation is advisory only.
type Guard interface {
	HasVoted(voter Voter, snackID uuid.UUID) bool
	RecordVote(voter Voter, snackID uuid.UUID)
	ForgetVote(voter Voter, snackID uuid.UUID)
}

// Ballot is the decoded voted_snacks cookie.
type Ballot struct {
	ids []string
}

// ParseBallot decodes a cookie value. Malformed values yield an empty ballot,
// the same as a browser that never voted.
func ParseBallot(raw string) *Ballot {
	b := &Ballot{}
	if raw == "" {
		return b
	}
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return b
	}
	b.ids = ids
	return b
}

func (b *Ballot) VotedSnackIDs() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

func (b *Ballot) has(id string) bool {
	for _, existing := range b.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Encode returns the URL-escaped JSON array stored in the cookie.
func (b *Ballot) Encode() string {
	ids := b.ids
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return url.QueryEscape(string(data))
}

// BallotGuard enforces one vote per snack per browser ballot.
type BallotGuard struct{}

func (BallotGuard) HasVoted(voter Voter, snackID uuid.UUID) bool {
	b, ok := voter.(*Ballot)
	if !ok || b == nil {
		return false
	}
	return b.has(snackID.String())
}

func (BallotGuard) RecordVote(voter Voter, snackID uuid.UUID) {
	b, ok := voter.(*Ballot)
	if !ok || b == nil {
		return
	}
	id := snackID.String()
	if !b.has(id) {
		b.ids = append(b.ids, id)
	}
}

func (BallotGuard) ForgetVote(voter Voter, snackID uuid.UUID) {
	b, ok := voter.(*Ballot)
	if !ok || b == nil {
		return
	}
	id := snackID.String()
	kept := b.ids[:0]
	for _, existing := range b.ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	b.ids = kept
}
