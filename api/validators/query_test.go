package validators

import (
	"context"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func TestParseQueryEnum(t *testing.T) {
	req := httptest.NewRequest("GET", "/stores?sortOrder=ASC", nil)

	value, err := ParseQueryEnum(req, "sortOrder", "desc", "asc", "desc")
	if err != nil {
		t.Fatalf("parse enum: %v", err)
	}
	if value != "asc" {
		t.Fatalf("expected case-insensitive match to canonical value, got %q", value)
	}
}

func TestParseQueryEnumDefault(t *testing.T) {
	req := httptest.NewRequest("GET", "/stores", nil)

	value, err := ParseQueryEnum(req, "sortOrder", "desc", "asc", "desc")
	if err != nil {
		t.Fatalf("parse enum: %v", err)
	}
	if value != "desc" {
		t.Fatalf("expected default, got %q", value)
	}
}

func TestParseQueryEnumRejectsUnknown(t *testing.T) {
	req := httptest.NewRequest("GET", "/stores?sortOrder=sideways", nil)

	if _, err := ParseQueryEnum(req, "sortOrder", "desc", "asc", "desc"); err == nil {
		t.Fatal("expected unsupported value to fail")
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=25", nil)
	value, err := ParseQueryInt(req, "limit", 10, 1, 100)
	if err != nil {
		t.Fatalf("parse int: %v", err)
	}
	if value != 25 {
		t.Fatalf("expected 25, got %d", value)
	}

	req = httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatal("expected out-of-range value to fail")
	}

	req = httptest.NewRequest("GET", "/?limit=ten", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatal("expected non-numeric value to fail")
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	req := httptest.NewRequest("GET", "/users/"+id.String(), nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	parsed, err := ParseUUIDParam(req, "id")
	if err != nil {
		t.Fatalf("parse uuid: %v", err)
	}
	if parsed != id {
		t.Fatalf("expected %s got %s", id, parsed)
	}
}

func TestParseUUIDParamRejectsGarbage(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")
	req := httptest.NewRequest("GET", "/users/not-a-uuid", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	if _, err := ParseUUIDParam(req, "id"); err == nil {
		t.Fatal("expected invalid uuid to fail")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("expected truncation, got %q", got)
	}
}

func TestSanitizeStringTruncatesOnRuneBoundary(t *testing.T) {
	got := SanitizeString("caféteria", 4)
	if got != "café" {
		t.Fatalf("expected rune boundary truncation, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid utf-8, got %q", got)
	}
	if got := SanitizeString("日本語テスト", 3); got != "日本語" {
		t.Fatalf("expected 3 runes, got %q", got)
	}
}
