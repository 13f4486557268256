package stores

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/storerate/storerate-backend/api/validators"
	pkgerrors "github.com/storerate/storerate-backend/pkg/errors"
)

func decodeStoreBody(t *testing.T, body string, dest any) error {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	return validators.DecodeJSONBody(req, dest)
}

func TestCreateStoreRequestAcceptsLongName(t *testing.T) {
	name := strings.Repeat("n", 150)
	body := fmt.Sprintf(`{"name":%q,"address":"12 Long Lane","ownerId":%q}`, name, uuid.New())

	var payload CreateStoreRequest
	if err := decodeStoreBody(t, body, &payload); err != nil {
		t.Fatalf("expected 150 char name to be accepted, got %v", err)
	}
	if payload.Name != name {
		t.Fatalf("unexpected name %s", payload.Name)
	}
}

func TestCreateStoreRequestRejectsOverlongName(t *testing.T) {
	body := fmt.Sprintf(`{"name":%q,"address":"12 Long Lane","ownerId":%q}`, strings.Repeat("n", 256), uuid.New())

	var payload CreateStoreRequest
	err := decodeStoreBody(t, body, &payload)
	if err == nil {
		t.Fatal("expected 256 char name to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStoreRequestAcceptsLongName(t *testing.T) {
	name := strings.Repeat("n", 255)
	body := fmt.Sprintf(`{"name":%q}`, name)

	var payload UpdateStoreRequest
	if err := decodeStoreBody(t, body, &payload); err != nil {
		t.Fatalf("expected 255 char name to be accepted, got %v", err)
	}
	if payload.Name == nil || *payload.Name != name {
		t.Fatal("expected name to be set")
	}
}
