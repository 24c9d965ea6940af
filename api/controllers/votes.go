package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/api/validators"
	"github.com/officesnack/snackcycle/internal/votes"
	"github.com/officesnack/snackcycle/pkg/auth"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

type voteRequest struct {
	VoterName *string `json:"voterName" validate:"omitempty,max=100"`
}

type voteResponse struct {
	VoteCount int64 `json:"voteCount"`
}

// SnackVote casts a ballot for a snack and rewrites the ballot cookie.
func SnackVote(svc votes.Service, cookies CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return ballotHandler(svc, cookies, logg, func(r *http.Request, svc votes.Service, ballot *votes.Ballot) (*votes.VoteResult, error) {
		id, req, err := parseVoteRequest(r)
		if err != nil {
			return nil, err
		}
		return svc.Vote(r.Context(), ballot, id, req.VoterName)
	})
}

// SnackUnvote withdraws the caller's vote for a snack.
func SnackUnvote(svc votes.Service, cookies CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return ballotHandler(svc, cookies, logg, func(r *http.Request, svc votes.Service, ballot *votes.Ballot) (*votes.VoteResult, error) {
		id, req, err := parseVoteRequest(r)
		if err != nil {
			return nil, err
		}
		return svc.Unvote(r.Context(), ballot, id, req.VoterName)
	})
}

type ballotAction func(r *http.Request, svc votes.Service, ballot *votes.Ballot) (*votes.VoteResult, error)

func ballotHandler(svc votes.Service, cookies CookieOptions, logg *logger.Logger, action ballotAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vote service unavailable"))
			return
		}
		ballot := readBallot(r)
		result, err := action(r, svc, ballot)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeBallot(w, cookies, ballot)
		responses.WriteSuccess(w, voteResponse{VoteCount: result.VoteCount})
	}
}

func parseVoteRequest(r *http.Request) (uuid.UUID, voteRequest, error) {
	var req voteRequest
	id, err := validators.URLParamUUID(r, "id")
	if err != nil {
		return uuid.Nil, req, err
	}
	if err := validators.DecodeOptionalJSONBody(r, &req); err != nil {
		return uuid.Nil, req, err
	}
	req.VoterName = validators.OptionalString(req.VoterName, 100)
	return id, req, nil
}

// VoteStats returns the public vote statistics.
func VoteStats(svc votes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vote service unavailable"))
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminVotes returns the filtered vote log. Admin only.
func AdminVotes(svc votes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vote service unavailable"))
			return
		}
		snackID, err := validators.ParseQueryUUID(r, "snackId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := r.URL.Query()
		filter := votes.AdminLogFilter{
			SnackID:   snackID,
			SortBy:    query.Get("sortBy"),
			SortOrder: query.Get("sortOrder"),
			Limit:     limit,
		}
		entries, err := svc.AdminLog(r.Context(), auth.AdminFromContext(r.Context()), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// UserActivity returns proposer and voter statistics.
func UserActivity(svc votes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vote service unavailable"))
			return
		}
		activity, err := svc.UserActivity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, activity)
	}
}
