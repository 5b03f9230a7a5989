package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// AccountResponse is returned when an account is created
type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AnswerResponse carries a single 8-ball answer
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// HandleCreateAccount handles POST requests to create an account
func (h *Handler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	log.Printf("INFO: handleCreateAccount called for '%s'", email)

	if !validEmail(email) {
		WriteJSONError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := h.balls.CreateAccount(email)
	if err != nil {
		log.Printf("ERROR: Could not create account for '%s': %v", email, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Created account for '%s'", email)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AccountResponse{ID: user.ID(), Email: email})
}

// HandleRandomAnswer handles GET requests for a random answer from a random
// category. The user's ball is created with default phrases on first use.
func (h *Handler) HandleRandomAnswer(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	log.Printf("INFO: handleRandomAnswer called for '%s'", email)

	answer, err := h.balls.RandomAnswer(email, "")
	if err != nil {
		log.Printf("ERROR: Could not answer for '%s': %v", email, err)
		WriteStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnswerResponse{Answer: answer})
}
