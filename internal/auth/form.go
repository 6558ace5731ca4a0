// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package auth

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/pdf-suite/internal/backend"
	"github.com/pdiddy/pdf-suite/internal/messages"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form field names.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPassword  = "password"
)

// FormError maps field names to localized messages.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return strings.Join(parts, "; ")
}

// ValidateSignIn checks the sign-in form.
func ValidateSignIn(msg *messages.Bundle, email, password string) error {
	fields := map[string]string{}
	checkCredentials(msg, fields, email, password)
	return formError(fields)
}

// ValidateSignUp checks the sign-up form.
func ValidateSignUp(msg *messages.Bundle, in backend.SignUpRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.FirstName) == "" {
		fields[FieldFirstName] = msg.Get(messages.AuthFirstNameRequired)
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields[FieldLastName] = msg.Get(messages.AuthLastNameRequired)
	}
	checkCredentials(msg, fields, in.Email, in.Password)
	return formError(fields)
}

func checkCredentials(msg *messages.Bundle, fields map[string]string, email, password string) {
	switch {
	case email == "":
		fields[FieldEmail] = msg.Get(messages.AuthEmailRequired)
	case !emailPattern.MatchString(email):
		fields[FieldEmail] = msg.Get(messages.AuthEmailInvalid)
	}
	switch {
	case password == "":
		fields[FieldPassword] = msg.Get(messages.AuthPasswordRequired)
	case len(password) < MinPasswordLength:
		fields[FieldPassword] = msg.Get(messages.AuthPasswordMinLength)
	}
}

func formError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &FormError{Fields: fields}
}
