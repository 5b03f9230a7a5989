package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Generic record operations
	router.HandleFunc("/collections/{coll}", h.HandleInsert).Methods("POST")
	router.HandleFunc("/collections/{coll}/find", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/collections/{coll}/records/{id}", h.HandleGetById).Methods("GET")
	router.HandleFunc("/collections/{coll}/records/{id}", h.HandleUpdateById).Methods("PATCH")
	router.HandleFunc("/collections/{coll}/records/{id}", h.HandleDeleteById).Methods("DELETE")

	// Eightball operations
	router.HandleFunc("/users/{email}", h.HandleCreateAccount).Methods("POST")
	router.HandleFunc("/users/{email}", h.HandleRandomAnswer).Methods("GET")
	router.HandleFunc("/users/{email}/answers", h.HandleAllAnswers).Methods("GET")
	router.HandleFunc("/users/{email}/answers", h.HandleAddPhrases).Methods("PUT")
	router.HandleFunc("/users/{email}/answers", h.HandleDeleteBall).Methods("DELETE")
	router.HandleFunc("/users/{email}/answers/{category}", h.HandleCategoryAnswer).Methods("GET")
	router.HandleFunc("/users/{email}/answers/{category}", h.HandleClearCategory).Methods("DELETE")

	// Operational endpoints
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.HandleFunc("/metrics", h.HandleMetrics).Methods("GET")
}
