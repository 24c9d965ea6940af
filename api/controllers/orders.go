package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/api/validators"
	"github.com/officesnack/snackcycle/internal/orders"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/types"
)

type orderItemRequest struct {
	SnackID  string `json:"snackId" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type createOrderRequest struct {
	Items     []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes     *string            `json:"notes" validate:"omitempty,max=1000"`
	TotalCost types.LooseDecimal `json:"totalCost"`
}

func (req createOrderRequest) toInput() (orders.CreateInput, error) {
	items := make([]orders.ItemInput, 0, len(req.Items))
	for i, item := range req.Items {
		snackID, err := uuid.Parse(item.SnackID)
		if err != nil {
			return orders.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid snackId").WithDetails(map[string]any{"item": i})
		}
		items = append(items, orders.ItemInput{SnackID: snackID, Quantity: item.Quantity})
	}
	return orders.CreateInput{
		Items:     items,
		Notes:     validators.OptionalString(req.Notes, 1000),
		TotalCost: req.TotalCost.NullDecimal,
	}, nil
}

// OrderCreate places an order and retires the ordered snacks.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// WeeklyTotal aggregates this week's pending orders.
func WeeklyTotal(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		total, err := svc.WeeklyTotal(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, total)
	}
}
