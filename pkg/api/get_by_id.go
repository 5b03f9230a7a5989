package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetById handles GET requests to retrieve a specific record by ID
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	recID := vars["id"]

	log.Printf("INFO: handleGetById called for collection '%s', record '%s'", collName, recID)

	rec, err := h.store.GetById(collName, recID)
	if err != nil {
		log.Printf("ERROR: Record '%s' not found in collection '%s': %v", recID, collName, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Retrieved record '%s' from collection '%s'", recID, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}
