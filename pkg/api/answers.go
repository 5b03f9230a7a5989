package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cfranzen/eightball/pkg/eightball"
)

// PhrasesResponse lists phrases by answer category
type PhrasesResponse struct {
	Yes     []string `json:"yes"`
	No      []string `json:"no"`
	Unknown []string `json:"unknown"`
}

func phrasesResponse(answers map[string][]string) PhrasesResponse {
	return PhrasesResponse{
		Yes:     answers[eightball.CategoryYes],
		No:      answers[eightball.CategoryNo],
		Unknown: answers[eightball.CategoryUnknown],
	}
}

// HandleAllAnswers handles GET requests for every phrase in the user's ball
func (h *Handler) HandleAllAnswers(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	log.Printf("INFO: handleAllAnswers called for '%s'", email)

	answers, err := h.balls.Answers(email)
	if err != nil {
		log.Printf("ERROR: Could not list answers for '%s': %v", email, err)
		WriteStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(phrasesResponse(answers))
}

// HandleAddPhrases handles PUT requests to append phrases to the user's
// ball. Phrases a category already holds are skipped; the response lists
// what was actually added.
func (h *Handler) HandleAddPhrases(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	log.Printf("INFO: handleAddPhrases called for '%s'", email)

	var req AddPhrasesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	additions := map[string][]string{}
	if req.Yes != nil {
		additions[eightball.CategoryYes] = req.Yes
	}
	if req.No != nil {
		additions[eightball.CategoryNo] = req.No
	}
	if req.Unknown != nil {
		additions[eightball.CategoryUnknown] = req.Unknown
	}

	added, err := h.balls.AddPhrases(email, additions)
	if err != nil {
		log.Printf("ERROR: Could not add phrases for '%s': %v", email, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Added phrases for '%s'", email)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(phrasesResponse(added))
}

// HandleDeleteBall handles DELETE requests to erase the user's ball entirely
func (h *Handler) HandleDeleteBall(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	log.Printf("INFO: handleDeleteBall called for '%s'", email)

	if err := h.balls.DeleteBall(email); err != nil {
		log.Printf("ERROR: Could not delete ball for '%s': %v", email, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Deleted ball for '%s'", email)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCategoryAnswer handles GET requests for a random answer from one
// category
func (h *Handler) HandleCategoryAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	email := vars["email"]
	category := vars["category"]

	log.Printf("INFO: handleCategoryAnswer called for '%s', category '%s'", email, category)

	answer, err := h.balls.RandomAnswer(email, category)
	if err != nil {
		log.Printf("ERROR: Could not answer for '%s': %v", email, err)
		WriteStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnswerResponse{Answer: answer})
}

// HandleClearCategory handles DELETE requests to erase one category's
// phrases from the user's ball
func (h *Handler) HandleClearCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	email := vars["email"]
	category := vars["category"]

	log.Printf("INFO: handleClearCategory called for '%s', category '%s'", email, category)

	if err := h.balls.ClearCategory(email, category); err != nil {
		log.Printf("ERROR: Could not clear category '%s' for '%s': %v", category, email, err)
		WriteStoreError(w, err)
		return
	}

	log.Printf("INFO: Cleared category '%s' for '%s'", category, email)
	w.WriteHeader(http.StatusNoContent)
}
