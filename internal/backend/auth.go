// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/pdf-suite/internal/httputil"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// SignUpRequest is the body of /auth/signup.
type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body of the sign-in and sign-up endpoints. Sign-up
// may omit the token.
type AuthResponse struct {
	User  *types.User `json:"user"`
	Token string      `json:"token"`
}

// SignUp creates an account.
func (c *Client) SignUp(ctx context.Context, in SignUpRequest) (AuthResponse, error) {
	return c.postAuth(ctx, signUpPath, in)
}

// SignIn exchanges credentials for a user and bearer token.
func (c *Client) SignIn(ctx context.Context, email, password string) (AuthResponse, error) {
	out, err := c.postAuth(ctx, signInPath, signInRequest{Email: email, Password: password})
	if err != nil {
		return out, err
	}
	if out.Token == "" || out.User == nil {
		return AuthResponse{}, types.NewError(types.KindRequestFailed, "", fmt.Errorf("sign-in response missing user or token"))
	}
	return out, nil
}

func (c *Client) postAuth(ctx context.Context, path string, payload any) (AuthResponse, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.url(path), payload)
	if err != nil {
		return AuthResponse{}, types.NewError(types.KindTransportError, "", err)
	}
	var out AuthResponse
	if err := c.do(req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Profile fetches the user for a bearer token.
func (c *Client) Profile(ctx context.Context, token string) (types.User, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodGet, c.url(profilePath), nil)
	if err != nil {
		return types.User{}, types.NewError(types.KindTransportError, "", err)
	}
	httputil.SetBearer(req, token)

	var out struct {
		User *types.User `json:"user"`
	}
	if err := c.do(req, &out); err != nil {
		return types.User{}, err
	}
	if out.User == nil {
		return types.User{}, types.NewError(types.KindRequestFailed, "", fmt.Errorf("profile response has no user"))
	}
	return *out.User, nil
}
