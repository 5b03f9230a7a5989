package api

import (
	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; validator instances cache struct
// metadata and are safe for concurrent use
var validate = validator.New()

// AddPhrasesRequest is the body of PUT /users/{email}/answers. Every listed
// phrase must be non-empty; absent categories are left untouched.
type AddPhrasesRequest struct {
	Yes     []string `json:"yes" validate:"omitempty,dive,min=1"`
	No      []string `json:"no" validate:"omitempty,dive,min=1"`
	Unknown []string `json:"unknown" validate:"omitempty,dive,min=1"`
}

// validEmail reports whether the path parameter is a well-formed email
func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
