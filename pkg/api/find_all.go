package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// HandleFindAll handles GET requests to find records with filter criteria
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleFindAll called for collection '%s'", collName)

	// Build a field-equality filter from query parameters
	filter := make(map[string]interface{})
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		if num, err := strconv.ParseFloat(value, 64); err == nil {
			filter[key] = num
		} else if b, err := strconv.ParseBool(value); err == nil {
			filter[key] = b
		} else {
			filter[key] = value
		}
	}

	recs, err := h.store.FindAll(collName, filter)
	if err != nil {
		log.Printf("ERROR: Find failed for collection '%s': %v", collName, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Found %d records in collection '%s' with filter %v", len(recs), collName, filter)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}
