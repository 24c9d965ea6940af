package controllers

import (
	"net/http"

	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/api/validators"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/pkg/auth"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/types"
)

type proposeSnackRequest struct {
	Name       string             `json:"name" validate:"required,max=200"`
	URL        string             `json:"url" validate:"required,max=2048"`
	ImageURL   *string            `json:"imageUrl" validate:"omitempty,max=2048"`
	Category   *string            `json:"category" validate:"omitempty,max=100"`
	Price      types.LooseDecimal `json:"price"`
	ProposedBy *string            `json:"proposedBy" validate:"omitempty,max=100"`
}

// SnackList returns active snacks with their vote counts.
func SnackList(svc snacks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "snack service unavailable"))
			return
		}
		list, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SnackPropose records a new proposal.
func SnackPropose(svc snacks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "snack service unavailable"))
			return
		}
		var req proposeSnackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snack, err := svc.Propose(r.Context(), snacks.ProposeInput{
			Name:       req.Name,
			URL:        req.URL,
			ImageURL:   req.ImageURL,
			Category:   req.Category,
			Price:      req.Price.NullDecimal,
			ProposedBy: req.ProposedBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, snack)
	}
}

// SnackRetire soft deletes a snack. Admin only.
func SnackRetire(svc snacks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "snack service unavailable"))
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Retire(r.Context(), auth.AdminFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "retired": true})
	}
}

// MySnacks lists every snack a proposer submitted, retired ones included.
func MySnacks(svc snacks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "snack service unavailable"))
			return
		}
		proposer, err := validators.RequiredQuery(r, "proposer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByProposer(r.Context(), proposer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
