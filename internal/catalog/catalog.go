// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static documentation dataset: categories of
// Tailwind utilities, each listing functions with examples and variants.
// The dataset is loaded once and never mutated afterwards.
package catalog

// Category groups related utility functions (e.g. "Spacing", "Typography").
type Category struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Description string     `json:"description" yaml:"description"`
	Icon        string     `json:"icon" yaml:"icon"`
	Color       string     `json:"color" yaml:"color"`
	Functions   []Function `json:"functions" yaml:"functions" validate:"dive"`
}

// Function documents one utility. Its ID is unique within the owning
// category only.
type Function struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Name        string    `json:"name" yaml:"name" validate:"required"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Examples    []Example `json:"examples" yaml:"examples" validate:"dive"`
	Variants    []Variant `json:"variants" yaml:"variants" validate:"dive"`
}

// Example is a literal code snippet with a short explanation.
type Example struct {
	Code        string `json:"code" yaml:"code" validate:"required"`
	Description string `json:"description" yaml:"description" validate:"required"`
}

// Variant describes one axis of configurable values for a utility.
type Variant struct {
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Values      []string `json:"values" yaml:"values"`
	Description string   `json:"description" yaml:"description"`
}

// Catalog answers lookups over an immutable list of categories.
type Catalog struct {
	categories []Category
}

// New wraps categories in a Catalog. The slice is kept as-is; callers must
// not modify it afterwards.
func New(categories []Category) *Catalog {
	return &Catalog{categories: categories}
}

// List returns every category in dataset order.
func (c *Catalog) List() []Category {
	return c.categories
}

// FindCategory returns the category with the given id, or false if none exists.
func (c *Catalog) FindCategory(id string) (*Category, bool) {
	for i := range c.categories {
		if c.categories[i].ID == id {
			return &c.categories[i], true
		}
	}
	return nil, false
}

// FindFunction resolves the category first, then looks for functionID
// among its functions.
func (c *Catalog) FindFunction(categoryID, functionID string) (*Function, bool) {
	cat, ok := c.FindCategory(categoryID)
	if !ok {
		return nil, false
	}
	for i := range cat.Functions {
		if cat.Functions[i].ID == functionID {
			return &cat.Functions[i], true
		}
	}
	return nil, false
}

// FunctionCount returns the total number of functions across all categories.
func (c *Catalog) FunctionCount() int {
	n := 0
	for _, cat := range c.categories {
		n += len(cat.Functions)
	}
	return n
}
