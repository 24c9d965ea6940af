package snacks

import (
	"strings"

	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProposeInput is a new snack proposal. Blank optional fields are stored as null.
type ProposeInput struct {
	Name       string
	URL        string
	ImageURL   *string
	Category   *string
	Price      decimal.NullDecimal
	ProposedBy *string
}

// SnackWithVotes is a snack row plus its current vote tally.
type SnackWithVotes struct {
	models.Snack
	VoteCount int64 `json:"voteCount"`
}

// PurgeResult reports what the retired snack purge removed.
type PurgeResult struct {
	SnacksDeleted int64 `json:"snacksDeleted"`
	VotesDeleted  int64 `json:"votesDeleted"`
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
