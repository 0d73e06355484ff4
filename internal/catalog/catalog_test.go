package catalog

import (
	"testing"
)

func testCatalog() *Catalog {
	return New([]Category{
		{
			ID:   "spacing",
			Name: "Spacing",
			Functions: []Function{
				{ID: "padding", Name: "Padding", Category: "spacing"},
				{ID: "margin", Name: "Margin", Category: "spacing"},
			},
		},
		{
			ID:   "typography",
			Name: "Typography",
			Functions: []Function{
				{ID: "font-size", Name: "Font Size", Category: "typography"},
				// Same function id in a different category is allowed.
				{ID: "padding", Name: "Text Padding", Category: "typography"},
			},
		},
		{ID: "empty", Name: "Empty"},
	})
}

func TestListPreservesOrder(t *testing.T) {
	cats := testCatalog().List()
	want := []string{"spacing", "typography", "empty"}
	if len(cats) != len(want) {
		t.Fatalf("len: got %d, want %d", len(cats), len(want))
	}
	for i, id := range want {
		if cats[i].ID != id {
			t.Errorf("List()[%d]: got %q, want %q", i, cats[i].ID, id)
		}
	}
}

// TestFindCategoryTotality checks that a category is found if and only if
// some category in the list carries that id.
func TestFindCategoryTotality(t *testing.T) {
	c := testCatalog()
	ids := map[string]bool{}
	for _, cat := range c.List() {
		ids[cat.ID] = true
	}

	probes := []string{"spacing", "typography", "empty", "", "Spacing", "padding", "missing"}
	for _, id := range probes {
		t.Run("id="+id, func(t *testing.T) {
			cat, ok := c.FindCategory(id)
			if ok != ids[id] {
				t.Fatalf("FindCategory(%q) ok = %v, want %v", id, ok, ids[id])
			}
			if ok && cat.ID != id {
				t.Errorf("FindCategory(%q) returned %q", id, cat.ID)
			}
			if !ok && cat != nil {
				t.Errorf("FindCategory(%q) returned non-nil on miss", id)
			}
		})
	}
}

// TestFindFunctionTotality checks that function lookup is restricted to
// the resolved category.
func TestFindFunctionTotality(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		category string
		function string
		wantOK   bool
		wantName string
	}{
		{"spacing", "padding", true, "Padding"},
		{"spacing", "margin", true, "Margin"},
		{"typography", "padding", true, "Text Padding"},
		{"typography", "margin", false, ""},
		{"spacing", "font-size", false, ""},
		{"missing", "padding", false, ""},
		{"empty", "anything", false, ""},
		{"", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.function, func(t *testing.T) {
			fn, ok := c.FindFunction(tt.category, tt.function)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && fn.Name != tt.wantName {
				t.Errorf("name: got %q, want %q", fn.Name, tt.wantName)
			}
		})
	}
}

func TestFindFunctionExhaustive(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	for _, cat := range c.List() {
		for _, fn := range cat.Functions {
			got, ok := c.FindFunction(cat.ID, fn.ID)
			if !ok {
				t.Errorf("FindFunction(%q, %q) missed", cat.ID, fn.ID)
				continue
			}
			if got.Category != cat.ID {
				t.Errorf("%s/%s: Category = %q", cat.ID, fn.ID, got.Category)
			}
		}
	}
}

func TestFunctionCount(t *testing.T) {
	if got := testCatalog().FunctionCount(); got != 4 {
		t.Errorf("FunctionCount: got %d, want 4", got)
	}
}

func TestSearch(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query", "", nil},
		{"whitespace query", "   ", nil},
		{"category name", "typo", []string{"typography"}},
		{"function across categories", "padding", []string{"spacing/padding", "typography/padding"}},
		{"case insensitive", "MARGIN", []string{"spacing/margin"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := c.Search(tt.query)
			var got []string
			for _, h := range hits {
				if h.Function == nil {
					got = append(got, h.Category.ID)
				} else {
					got = append(got, h.Category.ID+"/"+h.Function.ID)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q): got %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search(%q)[%d]: got %q, want %q", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}
