package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/enums"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service places orders and reads order history.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	WeeklyTotal(ctx context.Context, now time.Time) (*WeeklyTotal, error)
}

type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Calendar cycle.Calendar
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	tx       txRunner
	calendar cycle.Calendar
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires order placement.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		calendar: params.Calendar,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "select at least one snack to order")
	}
	for i, item := range items {
		if item.SnackID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].snackId is required", i))
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d].quantity must be positive", i))
		}
	}
	return nil
}

// Create inserts the order and its items and retires every referenced snack
// in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var notes *string
	if input.Notes != nil {
		if trimmed := strings.TrimSpace(*input.Notes); trimmed != "" {
			notes = &trimmed
		}
	}
	order := &models.Order{
		ID:        uuid.New(),
		OrderDate: now,
		Status:    enums.OrderStatusPending,
		Notes:     notes,
		TotalCost: input.TotalCost,
	}

	snackIDs := make([]uuid.UUID, 0, len(input.Items))
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			SnackID:  item.SnackID,
			Quantity: item.Quantity,
		})
		if _, ok := seen[item.SnackID]; !ok {
			seen[item.SnackID] = struct{}{}
			snackIDs = append(snackIDs, item.SnackID)
		}
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		retired, err := repo.RetireSnacks(ctx, snackIDs, now)
		if err != nil {
			return fmt.Errorf("retire snacks: %w", err)
		}
		if retired != int64(len(snackIDs)) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "one or more snacks do not exist")
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		loaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		created = loaded
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order placement failed")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":   created.ID.String(),
		"item_count": len(created.Items),
		"snack_ids":  len(snackIDs),
	})
	s.logg.Info(logCtx, "order placed")
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// WeeklyTotal aggregates the pending orders placed since this week's Monday.
func (s *service) WeeklyTotal(ctx context.Context, now time.Time) (*WeeklyTotal, error) {
	since := s.calendar.WeekStart(now)
	rows, err := s.repo.ListPendingSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list weekly orders")
	}

	total := &WeeklyTotal{
		WeekStart:     since,
		OrderCount:    len(rows),
		TotalCost:     decimal.Zero,
		OrderedSnacks: []OrderedSnack{},
		OrderDetails:  make([]OrderDetail, 0, len(rows)),
	}
	index := map[uuid.UUID]int{}
	for _, order := range rows {
		if order.TotalCost.Valid {
			total.TotalCost = total.TotalCost.Add(order.TotalCost.Decimal)
		}
		detail := OrderDetail{
			ID:        order.ID,
			OrderDate: order.OrderDate,
			TotalCost: order.TotalCost,
			Notes:     order.Notes,
			ItemCount: len(order.Items),
		}
		for _, item := range order.Items {
			detail.TotalQuantity += item.Quantity
			pos, ok := index[item.SnackID]
			if !ok {
				pos = len(total.OrderedSnacks)
				index[item.SnackID] = pos
				entry := OrderedSnack{ID: item.SnackID}
				if item.Snack != nil {
					entry.Name = item.Snack.Name
					entry.ImageURL = item.Snack.ImageURL
					entry.URL = item.Snack.URL
					entry.ProposedBy = item.Snack.ProposedBy
				}
				total.OrderedSnacks = append(total.OrderedSnacks, entry)
			}
			total.OrderedSnacks[pos].Quantity += item.Quantity
			total.OrderedSnacks[pos].Orders++
		}
		total.TotalQuantity += detail.TotalQuantity
		total.OrderDetails = append(total.OrderDetails, detail)
	}

	sort.SliceStable(total.OrderedSnacks, func(i, j int) bool {
		return total.OrderedSnacks[i].Quantity > total.OrderedSnacks[j].Quantity
	})
	total.TotalTypes = len(total.OrderedSnacks)
	return total, nil
}
