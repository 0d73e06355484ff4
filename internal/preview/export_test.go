package preview

import (
	"strings"
	"testing"
)

func TestStandalone(t *testing.T) {
	doc := Standalone(`<div class="p-4">Hi</div>`, "body{color:red}", "https://cdn.example.com/tw.js")

	mustContain := []string{
		"<!DOCTYPE html>",
		`<meta charset="UTF-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		`<script src="https://cdn.example.com/tw.js"></script>`,
		"<style>\nbody{color:red}\n  </style>",
		"<body>\n<div class=\"p-4\">Hi</div>\n</body>",
	}
	for _, s := range mustContain {
		if !strings.Contains(doc, s) {
			t.Errorf("export should contain %q\n%s", s, doc)
		}
	}

	if strings.Index(doc, "<style>") > strings.Index(doc, "</head>") {
		t.Error("style block must be inside <head>")
	}
}

func TestStandaloneWithoutCSS(t *testing.T) {
	doc := Standalone("<p>x</p>", "", "")
	if strings.Contains(doc, "<style>") {
		t.Error("no style block expected for empty css")
	}
	if !strings.Contains(doc, `<script src="`+DefaultScriptURL+`"></script>`) {
		t.Error("empty script URL should fall back to the default build")
	}
}

func TestExportFilename(t *testing.T) {
	if ExportFilename != "tailwind-playground.html" {
		t.Errorf("ExportFilename: got %q", ExportFilename)
	}
}

func TestSeedDocument(t *testing.T) {
	doc := SeedDocument(`<p class="text-sky-600">x</p>`, "")

	if !strings.Contains(doc, `<script src="`+DefaultScriptURL+`"></script>`) {
		t.Errorf("seed missing Tailwind runtime: %q", doc)
	}
	if !strings.Contains(doc, `<p class="text-sky-600">x</p>`) {
		t.Error("seed missing body")
	}

	// CSS lands in the head of a seeded document.
	got := Combine(doc, "p{margin:0}")
	if !strings.Contains(got, "<style>p{margin:0}</style></head>") {
		t.Errorf("Combine on seed = %q", got)
	}
}
