// Package eightball implements the Magic 8-Ball service on top of a
// domain.Store. Accounts are keyed by email; each account owns at most one
// ball holding phrase lists for the yes, no and unknown answer categories.
package eightball

import (
	"errors"
	"strings"
)

// Answer categories. A ball stores one phrase list per category.
const (
	CategoryYes     = "yes"
	CategoryNo      = "no"
	CategoryUnknown = "unknown"
)

// Categories lists all answer categories in canonical order
var Categories = []string{CategoryYes, CategoryNo, CategoryUnknown}

// Collections used in the backing store
const (
	UsersCollection = "users"
	BallsCollection = "balls"
)

var (
	// ErrNoAccount means no account exists for the given email.
	ErrNoAccount = errors.New("no account for this email")

	// ErrAccountExists means an account with the given email already exists.
	ErrAccountExists = errors.New("account already exists")

	// ErrUnknownCategory means the category is not yes, no or unknown.
	ErrUnknownCategory = errors.New("unknown answer category")
)

// defaultPhrases seed a ball created on first read
var defaultPhrases = map[string][]string{
	CategoryYes:     {"Yes, definitely.", "It is decidedly so.", "You may rely on it."},
	CategoryNo:      {"Signs point to no.", "Don't count on it.", "Definitely not."},
	CategoryUnknown: {"Maybe?", "Try again.", "Ask again later."},
}

// ValidCategory reports whether name is a known answer category
func ValidCategory(name string) bool {
	switch name {
	case CategoryYes, CategoryNo, CategoryUnknown:
		return true
	}
	return false
}

// CategoryLabel returns the display name of a category, used as the answer
// when a category holds no phrases
func CategoryLabel(category string) string {
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
