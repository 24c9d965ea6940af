package dashboard

import (
	"time"

	"github.com/officesnack/snackcycle/pkg/db/models"
)

// VotedSnack is a snack with the number of votes in the queried window.
type VotedSnack struct {
	models.Snack
	VoteCount int64 `json:"voteCount"`
}

// OrderedSnack is a snack with how many order items reference it.
type OrderedSnack struct {
	models.Snack
	OrderCount int64 `json:"orderCount"`
}

type CategoryCount struct {
	Name  string `gorm:"column:name" json:"name"`
	Count int64  `gorm:"column:snack_count" json:"count"`
}

type CategoryShare struct {
	Name       string `json:"name"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

// Summary is the dashboard payload. Sections that fail to load stay at their zero value.
type Summary struct {
	TotalSnacks               int64                  `json:"totalSnacks"`
	TotalVotes                int64                  `json:"totalVotes"`
	TotalOrders               int64                  `json:"totalOrders"`
	WeekStart                 time.Time              `json:"weekStart"`
	WeeklySnacks              int64                  `json:"weeklySnacks"`
	WeeklyVotes               int64                  `json:"weeklyVotes"`
	WeeklyProposedSnacks      []VotedSnack           `json:"weeklyProposedSnacks"`
	WeeklyProposedSnacksCount int                    `json:"weeklyProposedSnacksCount"`
	TopCategory               string                 `json:"topCategory"`
	TopSnacks                 []VotedSnack           `json:"topSnacks"`
	AllTimeTopSnacks          []OrderedSnack         `json:"allTimeTopSnacks"`
	CategoryData              []CategoryShare        `json:"categoryData"`
	RecentVotes               []models.Vote          `json:"recentVotes"`
	RecentProposals           []models.Snack         `json:"recentProposals"`
	MonthlyMVP                *VotedSnack            `json:"monthlyMVP"`
	NextOrderDate             time.Time              `json:"nextOrderDate"`
	TrendingSnacks            []models.TrendingSnack `json:"trendingSnacks"`
}

const (
	ActivitySnackProposal = "snack_proposal"
	ActivityOrderCreated  = "order_created"
)

// Activity is one entry of the live activity ticker.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Emoji     string    `json:"emoji"`
	Timestamp time.Time `json:"timestamp"`
}
