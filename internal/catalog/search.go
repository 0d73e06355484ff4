// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "strings"

// Hit is a single search result. Function is nil when the category itself
// matched.
type Hit struct {
	Category *Category
	Function *Function
}

// Search returns categories and functions whose name or description
// contains query, case-insensitively, in catalog order. An empty query
// yields no hits.
func (c *Catalog) Search(query string) []Hit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []Hit
	for i := range c.categories {
		cat := &c.categories[i]
		if matches(q, cat.Name, cat.Description) {
			hits = append(hits, Hit{Category: cat})
		}
		for j := range cat.Functions {
			fn := &cat.Functions[j]
			if matches(q, fn.ID, fn.Name, fn.Description) {
				hits = append(hits, Hit{Category: cat, Function: fn})
			}
		}
	}
	return hits
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
