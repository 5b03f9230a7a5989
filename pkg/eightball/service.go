package eightball

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cfranzen/eightball/pkg/domain"
)

// Service implements the Magic 8-Ball operations over a domain.Store.
// All state lives in the store; the mutex serializes the multi-step
// operations so two callers cannot both pass the same existence check.
type Service struct {
	mu    sync.Mutex
	store domain.Store
}

// NewService creates a new eightball service on top of the given store
func NewService(store domain.Store) *Service {
	return &Service{store: store}
}

// CreateAccount creates a new account for the given email. It fails with
// ErrAccountExists if the email is already taken.
func (s *Service) CreateAccount(email string) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findUser(email)
	if err != nil && !errors.Is(err, ErrNoAccount) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("account for %s: %w", email, ErrAccountExists)
	}

	return s.store.Insert(UsersCollection, domain.Record{
		"email":      email,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// findUser returns the user record for an email, or ErrNoAccount
func (s *Service) findUser(email string) (domain.Record, error) {
	users, err := s.store.FindAll(UsersCollection, map[string]interface{}{"email": email})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Collection does not exist yet, so neither does the user
			return nil, fmt.Errorf("user %s: %w", email, ErrNoAccount)
		}
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", email, ErrNoAccount)
	}
	return users[0], nil
}

// ballFor returns the user's ball, creating one if the user has none.
// A ball created here is seeded with default phrases when seedDefaults is
// set, and starts empty otherwise. Callers must hold s.mu.
func (s *Service) ballFor(email string, seedDefaults bool) (domain.Record, error) {
	user, err := s.findUser(email)
	if err != nil {
		return nil, err
	}

	if ballID, ok := user["ball_id"].(string); ok && ballID != "" {
		ball, err := s.store.GetById(BallsCollection, ballID)
		if err == nil {
			return ball, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// Dangling reference, fall through and create a fresh ball
	}

	ball := domain.Record{
		CategoryYes:     []string{},
		CategoryNo:      []string{},
		CategoryUnknown: []string{},
	}
	if seedDefaults {
		for category, phrases := range defaultPhrases {
			ball[category] = phrases
		}
	}

	ball, err = s.store.Insert(BallsCollection, ball)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.UpdateById(UsersCollection, user.ID(), domain.Record{"ball_id": ball.ID()}); err != nil {
		return nil, err
	}
	return ball, nil
}

// RandomAnswer returns a random phrase from the given category, or from a
// random category if category is empty. An empty category answers with the
// category's display name.
func (s *Service) RandomAnswer(email, category string) (string, error) {
	if category == "" {
		category = Categories[rand.Intn(len(Categories))]
	}
	if !ValidCategory(category) {
		return "", fmt.Errorf("category %s: %w", category, ErrUnknownCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ball, err := s.ballFor(email, true)
	if err != nil {
		return "", err
	}

	phrases := toStringSlice(ball[category])
	if len(phrases) == 0 {
		return CategoryLabel(category), nil
	}
	return phrases[rand.Intn(len(phrases))], nil
}

// Answers returns all phrases of the requested categories, keyed by
// category. With no categories given, all of them are returned. The ball is
// created with default phrases if the user does not have one yet.
func (s *Service) Answers(email string, categories ...string) (map[string][]string, error) {
	if len(categories) == 0 {
		categories = Categories
	}
	for _, category := range categories {
		if !ValidCategory(category) {
			return nil, fmt.Errorf("category %s: %w", category, ErrUnknownCategory)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ball, err := s.ballFor(email, true)
	if err != nil {
		return nil, err
	}

	answers := make(map[string][]string, len(categories))
	for _, category := range categories {
		answers[category] = toStringSlice(ball[category])
	}
	return answers, nil
}

// AddPhrases appends phrases to the ball's category lists, skipping phrases
// a category already holds. The returned map lists what was actually added.
// A ball created by this call starts empty instead of with defaults.
func (s *Service) AddPhrases(email string, additions map[string][]string) (map[string][]string, error) {
	for category := range additions {
		if !ValidCategory(category) {
			return nil, fmt.Errorf("category %s: %w", category, ErrUnknownCategory)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ball, err := s.ballFor(email, false)
	if err != nil {
		return nil, err
	}

	added := make(map[string][]string, len(additions))
	updates := domain.Record{}
	for category, phrases := range additions {
		existing := toStringSlice(ball[category])
		seen := make(map[string]bool, len(existing))
		for _, phrase := range existing {
			seen[phrase] = true
		}

		newPhrases := []string{}
		for _, phrase := range phrases {
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			existing = append(existing, phrase)
			newPhrases = append(newPhrases, phrase)
		}
		added[category] = newPhrases
		updates[category] = existing
	}

	if len(updates) > 0 {
		if _, err := s.store.UpdateById(BallsCollection, ball.ID(), updates); err != nil {
			return nil, err
		}
	}
	return added, nil
}

// ClearCategory erases all phrases of one category from the user's ball.
// It fails with ErrNoAccount if the user has no account or no ball.
func (s *Service) ClearCategory(email, category string) error {
	if !ValidCategory(category) {
		return fmt.Errorf("category %s: %w", category, ErrUnknownCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.findUser(email)
	if err != nil {
		return err
	}
	ballID, ok := user["ball_id"].(string)
	if !ok || ballID == "" {
		return fmt.Errorf("user %s has no ball: %w", email, ErrNoAccount)
	}

	_, err = s.store.UpdateById(BallsCollection, ballID, domain.Record{category: []string{}})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("user %s has no ball: %w", email, ErrNoAccount)
	}
	return err
}

// DeleteBall removes the user's ball entirely. Deleting when the user never
// had a ball is a no-op; a missing account fails with ErrNoAccount.
func (s *Service) DeleteBall(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.findUser(email)
	if err != nil {
		return err
	}

	ballID, ok := user["ball_id"].(string)
	if !ok || ballID == "" {
		return nil
	}

	if err := s.store.DeleteById(BallsCollection, ballID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err = s.store.UpdateById(UsersCollection, user.ID(), domain.Record{"ball_id": ""})
	return err
}

// toStringSlice normalizes a stored phrase list. Depending on the codec a
// list comes back as []string or []interface{}.
func toStringSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case []interface{}:
		phrases := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				phrases = append(phrases, s)
			}
		}
		return phrases
	default:
		return []string{}
	}
}
