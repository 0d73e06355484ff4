// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Snippet is a saved playground state reachable at /s/{slug}.
type Snippet struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	HTML          string    `json:"html"`
	CSS           string    `json:"css"`
	CategoryID    string    `json:"category_id,omitempty"`
	FunctionID    string    `json:"function_id,omitempty"`
	DeleteKeyHash string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayTitle returns the title, or a placeholder for untitled snippets.
func (s *Snippet) DisplayTitle() string {
	if s.Title == "" {
		return "Untitled snippet"
	}
	return s.Title
}
