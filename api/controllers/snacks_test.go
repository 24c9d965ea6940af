package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnackProposeCreates(t *testing.T) {
	var got snacks.ProposeInput
	svc := &stubSnackService{propose: func(_ context.Context, input snacks.ProposeInput) (*models.Snack, error) {
		got = input
		return &models.Snack{ID: uuid.New(), Name: input.Name, URL: input.URL}, nil
	}}
	rec := httptest.NewRecorder()
	body := `{"name":"새우깡","url":"https://shop.example/1","price":"1500","proposedBy":"kim"}`
	SnackPropose(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/snacks", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "새우깡", got.Name)
	require.True(t, got.Price.Valid)
	assert.Equal(t, "1500", got.Price.Decimal.String())
	require.NotNil(t, got.ProposedBy)
	assert.Equal(t, "kim", *got.ProposedBy)
}

func TestSnackProposeGarbagePriceBecomesNull(t *testing.T) {
	var got snacks.ProposeInput
	svc := &stubSnackService{propose: func(_ context.Context, input snacks.ProposeInput) (*models.Snack, error) {
		got = input
		return &models.Snack{}, nil
	}}
	rec := httptest.NewRecorder()
	SnackPropose(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/snacks", `{"name":"a","url":"b","price":"free"}`, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, got.Price.Valid)
}

func TestSnackProposeRequiresNameAndURL(t *testing.T) {
	svc := &stubSnackService{propose: func(context.Context, snacks.ProposeInput) (*models.Snack, error) {
		t.Fatalf("service should not be called")
		return nil, nil
	}}
	rec := httptest.NewRecorder()
	SnackPropose(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/snacks", `{"name":"Pocky"}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSnackListReturnsVoteCounts(t *testing.T) {
	svc := &stubSnackService{listActive: func(context.Context) ([]snacks.SnackWithVotes, error) {
		return []snacks.SnackWithVotes{{Snack: models.Snack{Name: "Pocky"}, VoteCount: 3}}, nil
	}}
	rec := httptest.NewRecorder()
	SnackList(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/snacks", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Pocky", rows[0]["name"])
	assert.Equal(t, float64(3), rows[0]["voteCount"])
}

func TestSnackRetireRequiresAdmin(t *testing.T) {
	svc := &stubSnackService{}
	id := uuid.New().String()

	rec := httptest.NewRecorder()
	SnackRetire(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodDelete, "/snacks/"+id, "", map[string]string{"id": id}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	SnackRetire(svc, testLogger()).ServeHTTP(rec, asAdmin(newRequest(http.MethodDelete, "/snacks/"+id, "", map[string]string{"id": id})))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSnackRetireRejectsMalformedID(t *testing.T) {
	svc := &stubSnackService{retire: func(context.Context, *auth.AdminCapability, uuid.UUID) error {
		t.Fatalf("service should not be called")
		return nil
	}}
	rec := httptest.NewRecorder()
	SnackRetire(svc, testLogger()).ServeHTTP(rec, asAdmin(newRequest(http.MethodDelete, "/snacks/x", "", map[string]string{"id": "x"})))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMySnacksRequiresProposer(t *testing.T) {
	var got string
	svc := &stubSnackService{listByProposer: func(_ context.Context, proposer string) ([]snacks.SnackWithVotes, error) {
		got = proposer
		return []snacks.SnackWithVotes{}, nil
	}}

	rec := httptest.NewRecorder()
	MySnacks(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/my-snacks", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	MySnacks(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/my-snacks?proposer=kim", "", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kim", got)
}

func TestSnackHandlersWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	SnackList(nil, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/snacks", "", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
