package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cfranzen/eightball/pkg/domain"
)

// HandleInsert handles POST requests to create records in collections
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleInsert called for collection '%s'", collName)

	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.store.Insert(collName, rec)
	if err != nil {
		log.Printf("ERROR: Insert failed for collection '%s': %v", collName, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Inserted record '%s' into collection '%s'", stored.ID(), collName)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(stored)
}
