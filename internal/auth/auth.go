// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth holds the signed-in user. The bearer token is the durable
// record, kept in client storage; the user is re-derived from it by a
// profile fetch once per process.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdf-suite/internal/backend"
	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// TokenKey is the storage key of the bearer token.
const TokenKey = "auth.token"

// API is the subset of the backend client a Session needs.
type API interface {
	SignIn(ctx context.Context, email, password string) (backend.AuthResponse, error)
	SignUp(ctx context.Context, in backend.SignUpRequest) (backend.AuthResponse, error)
	Profile(ctx context.Context, token string) (types.User, error)
}

// TokenStore persists the token across processes.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Session is the process-wide auth state. It is safe for concurrent use.
type Session struct {
	api   API
	store TokenStore
	msg   *messages.Bundle
	log   zerolog.Logger

	once sync.Once

	mu    sync.Mutex
	user  *types.User
	token string
}

// NewSession returns a signed-out session.
func NewSession(api API, store TokenStore, msg *messages.Bundle, log zerolog.Logger) *Session {
	return &Session{api: api, store: store, msg: msg, log: log}
}

// Init restores the user from a stored token. Only the first call does
// anything. A rejected token is discarded; a transport failure keeps it
// stored but leaves the session unauthenticated.
func (s *Session) Init(ctx context.Context) error {
	var err error
	s.once.Do(func() { err = s.restore(ctx) })
	return err
}

func (s *Session) restore(ctx context.Context) error {
	token, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("reading stored token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		if errors.Is(err, types.ErrRequestFailed) {
			s.log.Info().Msg("stored token rejected, discarding")
			if derr := s.store.Delete(ctx, TokenKey); derr != nil {
				return fmt.Errorf("discarding token: %w", derr)
			}
			return nil
		}
		s.log.Warn().Err(err).Msg("profile fetch failed")
		return nil
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	return nil
}

// User returns the signed-in user, or nil.
func (s *Session) User() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token of the signed-in user.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.User() != nil
}

// SignIn validates the form, then exchanges credentials for a token. On
// failure the session is left as it was.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	if err := ValidateSignIn(s.msg, email, password); err != nil {
		return err
	}
	resp, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return s.failure(err, messages.AuthSignInFailed)
	}
	return s.adopt(ctx, resp)
}

// SignUp validates the form, then creates the account. The server may not
// return a token, in which case only the user is set.
func (s *Session) SignUp(ctx context.Context, in backend.SignUpRequest) error {
	if err := ValidateSignUp(s.msg, in); err != nil {
		return err
	}
	resp, err := s.api.SignUp(ctx, in)
	if err != nil {
		return s.failure(err, messages.AuthSignUpFailed)
	}
	return s.adopt(ctx, resp)
}

func (s *Session) adopt(ctx context.Context, resp backend.AuthResponse) error {
	if resp.Token != "" {
		if err := s.store.Set(ctx, TokenKey, resp.Token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if resp.User != nil {
		u := *resp.User
		s.user = &u
	}
	if resp.Token != "" {
		s.token = resp.Token
	}
	return nil
}

// failure keeps the server message when there is one.
func (s *Session) failure(err error, fallback string) error {
	var te *types.Error
	if errors.As(err, &te) && te.Message != "" {
		return err
	}
	kind := types.KindTransportError
	if te != nil {
		kind = te.Kind
	}
	return types.NewError(kind, s.msg.Get(fallback), err)
}

// SignOut deletes the stored token, then forgets the user. When the delete
// fails the session stays signed in.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	return nil
}
