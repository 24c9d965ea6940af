package votes

import (
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/db/models"
)

const (
	recentVoteLimit = 20
	adminLogDefault = 100
	adminLogMax     = 500
	adminTopSnacks  = 10
	statsWindowDays = 7
	anonymousVoter  = "익명"
	sortByCreatedAt = "createdAt"
	sortByVoterName = "voterName"
	sortOrderAsc    = "asc"
	sortOrderDesc   = "desc"
)

// VoteResult is returned by Vote and Unvote.
type VoteResult struct {
	Vote      *models.Vote `json:"vote,omitempty"`
	VoteCount int64        `json:"voteCount"`
}

// SnackTally is a snack summary with its vote count.
type SnackTally struct {
	ID         uuid.UUID `gorm:"column:id" json:"id"`
	Name       string    `gorm:"column:name" json:"name"`
	ImageURL   *string   `gorm:"column:image_url" json:"imageUrl"`
	URL        string    `gorm:"column:url" json:"url,omitempty"`
	Category   *string   `gorm:"column:category" json:"category"`
	ProposedBy *string   `gorm:"column:proposed_by" json:"proposedBy"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"-"`
	VoteCount  int64     `gorm:"column:vote_count" json:"voteCount"`
}

type CategoryVotes struct {
	Category   string `json:"category"`
	TotalVotes int64  `json:"totalVotes"`
	SnackCount int    `json:"snackCount"`
}

type VoterSplit struct {
	Anonymous int64 `json:"anonymous"`
	Named     int64 `json:"named"`
}

// Stats backs the public vote statistics page.
type Stats struct {
	TotalVotes      int64            `json:"totalVotes"`
	TotalSnacks     int              `json:"totalSnacks"`
	SnacksWithVotes []SnackTally     `json:"snacksWithVotes"`
	RecentVotes     []models.Vote    `json:"recentVotes"`
	CategoryStats   []CategoryVotes  `json:"categoryStats"`
	VoterStats      VoterSplit       `json:"voterStats"`
	VotesByDay      map[string]int64 `json:"votesByDay"`
}

// AdminLogFilter narrows the admin vote log.
type AdminLogFilter struct {
	SnackID   *uuid.UUID
	SortBy    string
	SortOrder string
	Limit     int
}

func (f AdminLogFilter) normalize() AdminLogFilter {
	if f.SortBy != sortByVoterName {
		f.SortBy = sortByCreatedAt
	}
	if f.SortOrder != sortOrderAsc {
		f.SortOrder = sortOrderDesc
	}
	if f.Limit <= 0 {
		f.Limit = adminLogDefault
	}
	if f.Limit > adminLogMax {
		f.Limit = adminLogMax
	}
	return f
}

type AdminLog struct {
	Votes      []models.Vote `json:"votes"`
	TotalVotes int64         `json:"totalVotes"`
	TopSnacks  []SnackTally  `json:"topSnacks"`
}

type ProposerStat struct {
	ProposedBy string       `json:"proposedBy"`
	SnackCount int          `json:"snackCount"`
	Snacks     []SnackTally `json:"snacks"`
	TotalVotes int64        `json:"totalVotes"`
}

type VoterStat struct {
	VoterName string        `json:"voterName"`
	VoteCount int           `json:"voteCount"`
	Votes     []models.Vote `json:"votes"`
}

type VoterEntry struct {
	ID        uuid.UUID `json:"id"`
	VoterName *string   `json:"voterName"`
	CreatedAt time.Time `json:"createdAt"`
}

type SnackVoters struct {
	SnackTally
	Votes []VoterEntry `json:"votes"`
}

type ActivitySummary struct {
	TotalSnacks     int64 `json:"totalSnacks"`
	TotalVotes      int64 `json:"totalVotes"`
	TotalProposers  int   `json:"totalProposers"`
	TotalVoters     int   `json:"totalVoters"`
	NamedVoters     int   `json:"namedVoters"`
	AnonymousVoters int   `json:"anonymousVoters"`
}

// UserActivity backs the per-person activity page.
type UserActivity struct {
	ProposerStats    []ProposerStat  `json:"proposerStats"`
	VoterStats       []VoterStat     `json:"voterStats"`
	SnacksWithVoters []SnackVoters   `json:"snacksWithVoters"`
	Summary          ActivitySummary `json:"summary"`
}
