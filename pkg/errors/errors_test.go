package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeDuplicateVote, status: http.StatusForbidden, publicMsg: "already voted for this snack"},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	inner := New(CodeNotFound, "snack not found")
	outer := fmt.Errorf("vote: %w", inner)
	if !IsCode(outer, CodeNotFound) {
		t.Fatalf("expected IsCode to see wrapped not found")
	}
	if IsCode(outer, CodeValidation) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if !stdErrors.Is(outer, New(CodeNotFound, "")) {
		t.Fatalf("errors.Is should match by code")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("tx aborted"), "weekly reset failed")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected internal code in dump, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if dump.PG != nil {
		t.Fatalf("non postgres errors should leave pg fields empty")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpMarksRetryableCodes(t *testing.T) {
	if !Dump(New(CodeDependency, "naver down")).Retryable {
		t.Fatalf("dependency errors should be flagged retryable")
	}
	if Dump(New(CodeValidation, "name required")).Retryable {
		t.Fatalf("validation errors are not retryable")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("tx aborted"), "weekly reset failed")
	if got := err.Error(); got != "INTERNAL_ERROR: weekly reset failed: tx aborted" {
		t.Fatalf("unexpected error string %q", got)
	}
	if got := Newf(CodeNotFound, "snack %s not found", "abc").Error(); got != "NOT_FOUND: snack abc not found" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func TestInternalMessagesAreNeverExposed(t *testing.T) {
	for _, code := range []Code{CodeInternal, CodeDependency} {
		if MetadataFor(code).ExposeMessage {
			t.Fatalf("%s must not expose its message", code)
		}
	}
	if !MetadataFor(CodeDuplicateVote).ExposeMessage {
		t.Fatalf("duplicate vote message should reach the caller")
	}
}

func TestDumpReadsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "order_items_snack_fk", TableName: "order_items"}
	dump := Dump(Wrap(CodeInternal, fmt.Errorf("create order items: %w", pgErr), "order placement failed"))
	if dump.PG == nil || dump.PG.Code != "23503" {
		t.Fatalf("expected pgx fields, got %+v", dump.PG)
	}
	fields := dump.Fields()
	if fields["pg_constraint"] != "order_items_snack_fk" {
		t.Fatalf("expected constraint in log fields, got %v", fields)
	}

	viaPQ := Dump(&pq.Error{Code: "23505", Table: "announcements"})
	if viaPQ.PG == nil || viaPQ.PG.Code != "23505" || viaPQ.PG.Table != "announcements" {
		t.Fatalf("expected lib/pq fields, got %+v", viaPQ.PG)
	}
}
