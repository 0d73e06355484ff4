// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds the short URL names used for shared snippets.
package slug

import (
	"crypto/rand"
	"regexp"
	"strings"
)

const (
	// MaxBaseLength caps the title-derived part of a slug.
	MaxBaseLength = 40

	// SuffixLength is the number of random characters appended by Unique.
	SuffixLength = 6

	// Fallback is used when a title has no usable characters.
	Fallback = "snippet"

	suffixAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	valid           = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate turns a title into a lowercase hyphenated slug of at most
// MaxBaseLength characters. Any whitespace run becomes one hyphen.
// Example: "Hero Card (dark)" → "hero-card-dark"
func Generate(s string) string {
	result := strings.Join(strings.Fields(strings.ToLower(s)), "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxBaseLength {
		result = strings.TrimRight(result[:MaxBaseLength], "-")
	}
	return result
}

// Unique returns Generate(title) followed by a random suffix, so two
// snippets with the same title get different URLs.
// Example: "Hero Card" → "hero-card-k3xq9a"
func Unique(title string) string {
	base := Generate(title)
	if base == "" {
		base = Fallback
	}
	return base + "-" + randomSuffix()
}

// Valid reports whether s has the shape of a generated slug.
func Valid(s string) bool {
	return len(s) <= MaxBaseLength+1+SuffixLength && valid.MatchString(s)
}

func randomSuffix() string {
	b := make([]byte, SuffixLength)
	if _, err := rand.Read(b); err != nil {
		panic("slug: crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b)
}
