package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDeleteById handles DELETE requests to remove a specific record by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	recID := vars["id"]

	log.Printf("INFO: handleDeleteById called for collection '%s', record '%s'", collName, recID)

	if err := h.store.DeleteById(collName, recID); err != nil {
		log.Printf("ERROR: Delete failed for record '%s' in collection '%s': %v", recID, collName, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Deleted record '%s' from collection '%s'", recID, collName)
	w.WriteHeader(http.StatusNoContent)
}
