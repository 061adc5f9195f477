package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"mpress/css"
)

func TestParseKeepsPlainRules(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	sheet := p.Parse([]byte(`p { text-indent: 0.3in; margin: 0; } h1, h2 { font-weight: bold; }`))

	if len(sheet.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(sheet.Items))
	}
	first := sheet.Items[0].Rule
	if first == nil || len(first.Declarations) != 2 {
		t.Fatalf("first rule = %+v, want 2 declarations", first)
	}
	if first.Declarations[0].Property != "text-indent" || first.Declarations[0].Value != "0.3in" {
		t.Errorf("declaration = %+v", first.Declarations[0])
	}
	second := sheet.Items[1].Rule
	if second == nil || len(second.Selectors) != 2 {
		t.Fatalf("second rule selectors = %+v, want h1 and h2", second)
	}
}

func TestSanitizeDropsImports(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	out, warnings := p.Sanitize([]byte(`@import url("http://example.com/evil.css"); p { color: black; }`))

	if strings.Contains(out, "import") {
		t.Errorf("@import leaked through: %q", out)
	}
	if !strings.Contains(out, "color: black") {
		t.Errorf("legitimate rule lost: %q", out)
	}
	if len(warnings) == 0 {
		t.Error("dropping @import must produce a warning")
	}
}

func TestSanitizeKeepsPageAndMedia(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	src := `@page { margin: 1in; }
@media print { blockquote { font-style: italic; } }
@font-face { font-family: "X"; src: url(x.woff); }`

	out, warnings := p.Sanitize([]byte(src))

	if !strings.Contains(out, "@page {") || !strings.Contains(out, "margin: 1in;") {
		t.Errorf("@page block lost: %q", out)
	}
	if !strings.Contains(out, "@media print {") || !strings.Contains(out, "font-style: italic;") {
		t.Errorf("@media block lost: %q", out)
	}
	if strings.Contains(out, "font-face") {
		t.Errorf("@font-face must be dropped: %q", out)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "@font-face") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a @font-face drop notice", warnings)
	}
}

func TestSanitizeEmptyInput(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	out, warnings := p.Sanitize(nil)
	if out != "" {
		t.Errorf("empty input must serialize to nothing, got %q", out)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
