// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// User is the signed-in account as returned by the auth endpoints.
type User struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"firstName" yaml:"first_name"`
	LastName  string `json:"lastName" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
}

// DisplayName returns "First Last", falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HistoryStatus is the final state of a recorded conversion.
type HistoryStatus string

const (
	HistorySucceeded HistoryStatus = "succeeded"
	HistoryFailed    HistoryStatus = "failed"
)

// HistoryRecord is one finished conversion kept in client storage.
type HistoryRecord struct {
	ID        int64         `json:"id" yaml:"id"`
	ToolID    string        `json:"tool_id" yaml:"tool_id"`
	FileName  string        `json:"file_name" yaml:"file_name"`
	FileURL   string        `json:"file_url,omitempty" yaml:"file_url,omitempty"`
	Status    HistoryStatus `json:"status" yaml:"status"`
	Message   string        `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}
