package html_test

import (
	"strings"
	"testing"

	"mpress/convert/html"
	"mpress/manuscript"
	"mpress/theme"
)

func classicOpts() html.Options {
	return html.Options{
		Theme: theme.Lookup("classic-fiction"),
		Trim:  theme.LookupTrim("6x9"),
		Title: "Test Book",
	}
}

func oneChapter(content string) []manuscript.Chapter {
	return []manuscript.Chapter{{Number: 1, Title: "Chapter 1", Content: content}}
}

func TestGenerateDropCap(t *testing.T) {
	out := html.Generate(oneChapter("<p>Hello world.</p>"), nil, classicOpts())

	if !strings.Contains(out, "::first-letter") {
		t.Fatal("classic-fiction must emit a drop cap rule")
	}
	// 11pt body font, 3 drop cap lines
	if !strings.Contains(out, "font-size: 33pt") {
		t.Errorf("drop cap size must be font size times drop cap lines, output:\n%s", cssOf(out))
	}
}

func TestGenerateNoDropCapForModernBusiness(t *testing.T) {
	opts := classicOpts()
	opts.Theme = theme.Lookup("modern-business")
	out := html.Generate(oneChapter("<p>Hello.</p>"), nil, opts)

	if strings.Contains(out, "::first-letter") {
		t.Error("modern-business has no drop cap, rule must be absent")
	}
	if !strings.Contains(out, "page-break-before: always") {
		t.Error("start-anywhere theme must use an unconditional chapter break")
	}
}

func TestGenerateCopyrightOmission(t *testing.T) {
	out := html.Generate(oneChapter("<p>Hi.</p>"), nil, classicOpts())
	if strings.Contains(out, `class="copyright-page"`) {
		t.Error("nil copyright payload must produce no copyright block")
	}
}

func TestGenerateCopyrightFields(t *testing.T) {
	c := &html.CopyrightPage{
		CopyrightHolder: "Jane Author",
		PublishYear:     "2026",
		ISBN:            "978-1-23456-789-0",
	}
	out := html.Generate(oneChapter("<p>Hi.</p>"), c, classicOpts())

	if !strings.Contains(out, `class="copyright-page"`) {
		t.Fatal("populated payload must emit the copyright block")
	}
	if !strings.Contains(out, "Copyright © 2026 Jane Author") {
		t.Errorf("holder and year line missing:\n%s", out)
	}
	if !strings.Contains(out, "ISBN: 978-1-23456-789-0") {
		t.Error("ISBN line missing")
	}
	if strings.Contains(out, "Published by") {
		t.Error("absent publisher must not be defaulted")
	}
}

func TestGeneratePageGeometry(t *testing.T) {
	opts := classicOpts()
	out := html.Generate(oneChapter("<p>Hi.</p>"), nil, opts)
	if !strings.Contains(out, "size: 6in 9in") {
		t.Errorf("trim without bleed must be the bare page size:\n%s", cssOf(out))
	}

	opts.IncludeBleed = true
	out = html.Generate(oneChapter("<p>Hi.</p>"), nil, opts)
	if !strings.Contains(out, "size: 6.25in 9.25in") {
		t.Errorf("default bleed must widen the page box by 0.125in per side:\n%s", cssOf(out))
	}
}

func TestGenerateMirroredMargins(t *testing.T) {
	out := html.Generate(oneChapter("<p>Hi.</p>"), nil, classicOpts())
	// classic-fiction: inner 0.875, outer 0.625
	if !strings.Contains(out, "@page :left {\n  margin-left: 0.625in;\n  margin-right: 0.875in;") {
		t.Errorf("verso margins not mirrored:\n%s", cssOf(out))
	}
	if !strings.Contains(out, "@page :right {\n  margin-left: 0.875in;\n  margin-right: 0.625in;") {
		t.Errorf("recto margins not mirrored:\n%s", cssOf(out))
	}
	if !strings.Contains(out, "page-break-before: right") {
		t.Error("recto chapter starts must break to the right page")
	}
	if !strings.Contains(out, "@page :first") || !strings.Contains(out, "content: none") {
		t.Error("first page folio must be suppressed")
	}
}

func TestGenerateFirstParagraphTagging(t *testing.T) {
	out := html.Generate(oneChapter("<p>First one.</p><p>Second one.</p>"), nil, classicOpts())
	idx := strings.Index(out, `class="first-paragraph"`)
	if idx < 0 {
		t.Fatalf("first paragraph not tagged:\n%s", out)
	}
	if strings.Count(out, `class="first-paragraph"`) != 1 {
		t.Error("only the first paragraph per chapter gets the tag")
	}
}

func TestGenerateSurvivesMalformedMarkup(t *testing.T) {
	out := html.Generate(oneChapter("<p>unclosed <strong>bold"), nil, classicOpts())
	if !strings.Contains(out, "unclosed") || !strings.Contains(out, "bold") {
		t.Errorf("malformed markup must degrade, not vanish:\n%s", out)
	}
}

func TestGenerateUserCSSAppended(t *testing.T) {
	opts := classicOpts()
	opts.UserCSS = "p { color: navy; }"
	out := html.Generate(oneChapter("<p>Hi.</p>"), nil, opts)
	if !strings.Contains(out, "color: navy") {
		t.Error("sanitized user stylesheet must be appended to the theme CSS")
	}
}

// cssOf trims test failure output down to the embedded stylesheet.
func cssOf(doc string) string {
	start := strings.Index(doc, "<style>")
	end := strings.Index(doc, "</style>")
	if start < 0 || end < 0 {
		return doc
	}
	return doc[start:end]
}
