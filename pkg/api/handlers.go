package api

import (
	"github.com/cfranzen/eightball/pkg/domain"
	"github.com/cfranzen/eightball/pkg/eightball"
)

// Handler provides HTTP handlers for the record and eightball APIs
type Handler struct {
	store domain.Store
	balls *eightball.Service
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(store domain.Store) *Handler {
	return &Handler{
		store: store,
		balls: eightball.NewService(store),
	}
}
