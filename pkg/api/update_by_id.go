package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cfranzen/eightball/pkg/domain"
)

// HandleUpdateById handles PATCH requests to partially update a record by ID
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	recID := vars["id"]

	log.Printf("INFO: handleUpdateById called for collection '%s', record '%s'", collName, recID)

	var updates domain.Record
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.store.UpdateById(collName, recID, updates)
	if err != nil {
		log.Printf("ERROR: Update failed for record '%s' in collection '%s': %v", recID, collName, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Updated record '%s' in collection '%s'", recID, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
