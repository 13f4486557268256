package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/storerate/storerate-backend/api/middleware"
	pkgerrors "github.com/storerate/storerate-backend/pkg/errors"
)

// actorID extracts the authenticated caller's uuid from the request context.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
