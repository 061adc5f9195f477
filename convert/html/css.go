package html

import (
	"fmt"
	"strings"

	"mpress/theme"
)

// stylesheet builds the embedded paged-media CSS for one theme and trim
// size combination. All distances end up in inches or points, the units the
// downstream PDF renderer understands without rounding surprises.
func stylesheet(t theme.BookTheme, trim theme.TrimSize, includeBleed bool, bleed float64) string {
	pageW, pageH := trim.Width, trim.Height
	if includeBleed {
		pageW += 2 * bleed
		pageH += 2 * bleed
	}

	var b strings.Builder

	fmt.Fprintf(&b, "@page {\n  size: %gin %gin;\n  margin-top: %gin;\n  margin-bottom: %gin;\n  @bottom-center { content: counter(page); }\n}\n",
		pageW, pageH, t.Margins.Top, t.Margins.Bottom)

	// verso pages carry the outer margin on the left, recto pages mirror it
	fmt.Fprintf(&b, "@page :left {\n  margin-left: %gin;\n  margin-right: %gin;\n}\n", t.Margins.Outer, t.Margins.Inner)
	fmt.Fprintf(&b, "@page :right {\n  margin-left: %gin;\n  margin-right: %gin;\n}\n", t.Margins.Inner, t.Margins.Outer)

	// no folio on the very first page
	b.WriteString("@page :first {\n  @bottom-center { content: none; }\n}\n")

	fmt.Fprintf(&b, "body {\n  font-family: %q;\n  font-size: %gpt;\n  line-height: %g;\n  text-align: justify;\n}\n",
		t.FontFamily, t.FontSize, t.LineHeight)

	breakKind := "always"
	if t.ChapterStyle.ChapterStartPage == theme.StartRecto {
		breakKind = "right"
	}
	fmt.Fprintf(&b, ".chapter {\n  page-break-before: %s;\n}\n", breakKind)

	fmt.Fprintf(&b, ".chapter-title {\n  font-family: %q;\n  font-size: %gpt;\n  text-align: %s;\n  margin-top: 2in;\n  margin-bottom: 0.5in;\n}\n",
		t.TitleFontFamily, t.FontSize*2, t.ChapterStyle.TitleAlignment)

	b.WriteString("p {\n  text-indent: 0.3in;\n  margin: 0;\n}\n")
	b.WriteString("p.first-paragraph {\n  text-indent: 0;\n}\n")

	if t.ChapterStyle.DropCap && t.ChapterStyle.DropCapLines > 0 {
		fmt.Fprintf(&b, ".chapter p.first-paragraph::first-letter {\n  font-size: %gpt;\n  float: left;\n  line-height: 0.9;\n  padding-right: 0.05in;\n}\n",
			t.FontSize*float64(t.ChapterStyle.DropCapLines))
	}

	b.WriteString("blockquote {\n  margin: 0.5em 0.5in;\n  font-style: italic;\n}\n")
	b.WriteString(".copyright-page {\n  page-break-after: always;\n  text-align: center;\n  font-size: 0.85em;\n}\n")
	b.WriteString(".copyright-page p {\n  text-indent: 0;\n  margin: 0.5em 0;\n}\n")

	return b.String()
}
