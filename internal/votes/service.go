package votes

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db/models"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"gorm.io/gorm"
)

// Service casts ballots and reports vote statistics.
type Service interface {
	Vote(ctx context.Context, voter Voter, snackID uuid.UUID, voterName *string) (*VoteResult, error)
	Unvote(ctx context.Context, voter Voter, snackID uuid.UUID, voterName *string) (*VoteResult, error)
	Stats(ctx context.Context) (*Stats, error)
	AdminLog(ctx context.Context, admin *auth.AdminCapability, filter AdminLogFilter) (*AdminLog, error)
	UserActivity(ctx context.Context) (*UserActivity, error)
}

type ServiceParams struct {
	Repo     Repository
	Guard    Guard
	Calendar cycle.Calendar
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	guard    Guard
	calendar cycle.Calendar
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "vote repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	guard := params.Guard
	if guard == nil {
		guard = BallotGuard{}
	}
	return &service{
		repo:     params.Repo,
		guard:    guard,
		calendar: params.Calendar,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func normalizeVoterName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *service) Vote(ctx context.Context, voter Voter, snackID uuid.UUID, voterName *string) (*VoteResult, error) {
	if s.guard.HasVoted(voter, snackID) {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateVote, "already voted for this snack")
	}

	snack, err := s.repo.FindSnack(ctx, snackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "snack not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snack")
	}
	if snack.IsRetired() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "snack is no longer open for voting")
	}

	vote := &models.Vote{
		ID:        uuid.New(),
		SnackID:   snackID,
		VoterName: normalizeVoterName(voterName),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, vote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vote")
	}
	s.guard.RecordVote(voter, snackID)

	count, err := s.repo.Count(ctx, &snackID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count votes")
	}
	return &VoteResult{Vote: vote, VoteCount: count}, nil
}

// Unvote deletes the newest vote for the snack. The ballot must already list it.
func (s *service) Unvote(ctx context.Context, voter Voter, snackID uuid.UUID, voterName *string) (*VoteResult, error) {
	if !s.guard.HasVoted(voter, snackID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "snack was not voted from this browser")
	}

	vote, err := s.repo.LatestForSnack(ctx, snackID, normalizeVoterName(voterName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vote")
	}
	if err := s.repo.Delete(ctx, vote.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vote")
	}
	s.guard.ForgetVote(voter, snackID)

	count, err := s.repo.Count(ctx, &snackID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count votes")
	}
	return &VoteResult{VoteCount: count}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count votes")
	}
	tallies, err := s.repo.TallyBySnack(ctx, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "tally votes")
	}
	recent, err := s.repo.Recent(ctx, recentVoteLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent votes")
	}
	anonymous, err := s.repo.CountAnonymous(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count anonymous votes")
	}
	since := s.now().Add(-statsWindowDays * 24 * time.Hour)
	stamps, err := s.repo.CreatedSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "votes by day")
	}

	byDay := make(map[string]int64)
	for _, at := range stamps {
		byDay[s.calendar.DayKey(at)]++
	}

	return &Stats{
		TotalVotes:      total,
		TotalSnacks:     len(tallies),
		SnacksWithVotes: nonNil(tallies),
		RecentVotes:     nonNil(recent),
		CategoryStats:   categoryVotes(tallies),
		VoterStats:      VoterSplit{Anonymous: anonymous, Named: total - anonymous},
		VotesByDay:      byDay,
	}, nil
}

func categoryVotes(tallies []SnackTally) []CategoryVotes {
	out := []CategoryVotes{}
	index := map[string]int{}
	for _, tally := range tallies {
		if tally.Category == nil || *tally.Category == "" {
			continue
		}
		pos, ok := index[*tally.Category]
		if !ok {
			pos = len(out)
			index[*tally.Category] = pos
			out = append(out, CategoryVotes{Category: *tally.Category})
		}
		out[pos].TotalVotes += tally.VoteCount
		out[pos].SnackCount++
	}
	return out
}

func (s *service) AdminLog(ctx context.Context, admin *auth.AdminCapability, filter AdminLogFilter) (*AdminLog, error) {
	if err := auth.RequireAdmin(admin); err != nil {
		return nil, err
	}
	filter = filter.normalize()

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list votes")
	}
	total, err := s.repo.Count(ctx, filter.SnackID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count votes")
	}
	top, err := s.repo.TallyBySnack(ctx, adminTopSnacks)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "tally votes")
	}
	return &AdminLog{Votes: nonNil(rows), TotalVotes: total, TopSnacks: nonNil(top)}, nil
}

func (s *service) UserActivity(ctx context.Context) (*UserActivity, error) {
	snacks, err := s.repo.TallyAllSnacks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "tally snacks")
	}
	votes, err := s.repo.ListAllWithSnack(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list votes")
	}

	activity := &UserActivity{
		ProposerStats:    proposerStats(snacks),
		VoterStats:       voterStats(votes),
		SnacksWithVoters: snacksWithVoters(snacks, votes),
	}

	named := 0
	for _, stat := range activity.VoterStats {
		if stat.VoterName != anonymousVoter {
			named++
		}
	}
	activity.Summary = ActivitySummary{
		TotalSnacks:     int64(len(snacks)),
		TotalVotes:      int64(len(votes)),
		TotalProposers:  len(activity.ProposerStats),
		TotalVoters:     len(activity.VoterStats),
		NamedVoters:     named,
		AnonymousVoters: len(activity.VoterStats) - named,
	}
	return activity, nil
}

// proposerStats groups snacks (already newest first) by proposer, largest group first.
func proposerStats(snacks []SnackTally) []ProposerStat {
	out := []ProposerStat{}
	index := map[string]int{}
	for _, snack := range snacks {
		if snack.ProposedBy == nil {
			continue
		}
		pos, ok := index[*snack.ProposedBy]
		if !ok {
			pos = len(out)
			index[*snack.ProposedBy] = pos
			out = append(out, ProposerStat{ProposedBy: *snack.ProposedBy, Snacks: []SnackTally{}})
		}
		out[pos].Snacks = append(out[pos].Snacks, snack)
		out[pos].SnackCount++
		out[pos].TotalVotes += snack.VoteCount
	}
	stableSortDesc(out, func(p ProposerStat) int { return p.SnackCount })
	return out
}

// voterStats groups votes (already newest first) by voter name; null names share the anonymous bucket.
func voterStats(votes []models.Vote) []VoterStat {
	out := []VoterStat{}
	index := map[string]int{}
	for _, vote := range votes {
		name := anonymousVoter
		if vote.VoterName != nil {
			name = *vote.VoterName
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, VoterStat{VoterName: name, Votes: []models.Vote{}})
		}
		out[pos].Votes = append(out[pos].Votes, vote)
		out[pos].VoteCount++
	}
	stableSortDesc(out, func(v VoterStat) int { return v.VoteCount })
	return out
}

func snacksWithVoters(snacks []SnackTally, votes []models.Vote) []SnackVoters {
	bySnack := map[uuid.UUID][]VoterEntry{}
	for _, vote := range votes {
		bySnack[vote.SnackID] = append(bySnack[vote.SnackID], VoterEntry{
			ID:        vote.ID,
			VoterName: vote.VoterName,
			CreatedAt: vote.CreatedAt,
		})
	}
	out := []SnackVoters{}
	for _, snack := range snacks {
		entries, ok := bySnack[snack.ID]
		if !ok {
			continue
		}
		out = append(out, SnackVoters{SnackTally: snack, Votes: entries})
	}
	stableSortDesc(out, func(s SnackVoters) int { return int(s.VoteCount) })
	return out
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func stableSortDesc[T any](rows []T, key func(T) int) {
	sort.SliceStable(rows, func(i, j int) bool { return key(rows[i]) > key(rows[j]) })
}
