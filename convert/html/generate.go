// Package html renders parsed chapters, an optional copyright page and a
// theme/trim selection into a single print-styled HTML document with an
// embedded paged-media stylesheet. The renderer is a pure transform: no
// I/O, no failure modes, malformed chapter markup degrades instead of
// erroring.
package html

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mpress/manuscript"
	"mpress/theme"
)

// DefaultBleed is the conventional print bleed per side, in inches.
const DefaultBleed = 0.125

// CopyrightPage carries the optional front-matter payload. Only populated
// fields are emitted; a nil page produces no block at all.
type CopyrightPage struct {
	ISBN              string
	PublisherName     string
	PublishYear       string
	CopyrightHolder   string
	LegalText         string
	AdditionalCredits string
}

// Options selects the typesetting recipe for one render.
type Options struct {
	Theme        theme.BookTheme
	Trim         theme.TrimSize
	IncludeBleed bool
	BleedSize    float64 // inches per side, DefaultBleed when zero
	UserCSS      string  // sanitized user stylesheet appended after the theme CSS
	Title        string  // document title, used in head only
}

// Generate produces the complete HTML document as a string.
func Generate(chapters []manuscript.Chapter, copyright *CopyrightPage, opts Options) string {
	bleed := opts.BleedSize
	if bleed == 0 {
		bleed = DefaultBleed
	}

	doc := etree.NewDocument()
	doc.CreateDirective("DOCTYPE html")

	root := doc.CreateElement("html")
	root.CreateAttr("lang", "en")

	head := root.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("charset", "utf-8")
	titleElem := head.CreateElement("title")
	titleElem.SetText(opts.Title)

	style := head.CreateElement("style")
	sheet := stylesheet(opts.Theme, opts.Trim, opts.IncludeBleed, bleed)
	if opts.UserCSS != "" {
		sheet += "\n" + opts.UserCSS
	}
	style.SetText("\n" + sheet)

	body := root.CreateElement("body")

	if copyright != nil {
		appendCopyrightPage(body, copyright)
	}

	for _, ch := range chapters {
		div := body.CreateElement("div")
		div.CreateAttr("class", "chapter")
		div.CreateAttr("id", fmt.Sprintf("chapter-%d", ch.Number))

		title := div.CreateElement("h1")
		title.CreateAttr("class", "chapter-title")
		title.SetText(ch.Title)

		appendMarkup(div, ch.Content)
		tagFirstParagraph(div)
	}

	out, err := doc.WriteToString()
	if err != nil {
		// in-memory serialization, should not happen
		return ""
	}
	return out
}

// appendCopyrightPage assembles the front-matter block from whichever
// optional fields are populated. Absent fields are omitted, not defaulted.
func appendCopyrightPage(body *etree.Element, c *CopyrightPage) {
	page := body.CreateElement("div")
	page.CreateAttr("class", "copyright-page")

	addLine := func(text string) {
		p := page.CreateElement("p")
		p.SetText(text)
	}

	if c.CopyrightHolder != "" {
		line := "Copyright ©"
		if c.PublishYear != "" {
			line += " " + c.PublishYear
		}
		line += " " + c.CopyrightHolder
		addLine(line)
	}
	if c.LegalText != "" {
		addLine(c.LegalText)
	}
	if c.ISBN != "" {
		addLine("ISBN: " + c.ISBN)
	}
	if c.PublisherName != "" {
		addLine("Published by " + c.PublisherName)
	}
	if c.AdditionalCredits != "" {
		addLine(c.AdditionalCredits)
	}
}

// appendMarkup parses a chapter's markup fragment and grafts it under the
// parent element. Unclosed tags are repaired by the HTML parser rather than
// rejected.
func appendMarkup(parent *etree.Element, markup string) {
	ctx := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		p := parent.CreateElement("p")
		p.SetText(markup)
		return
	}
	for _, n := range nodes {
		graft(parent, n)
	}
}

func graft(parent *etree.Element, n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			parent.CreateText(n.Data)
		}
	case xhtml.ElementNode:
		el := parent.CreateElement(n.Data)
		for _, a := range n.Attr {
			el.CreateAttr(a.Key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			graft(el, c)
		}
	default:
		// comments and the like are dropped
	}
}

// tagFirstParagraph marks the first top-level paragraph of a chapter for
// the no-indent first-paragraph convention (and the drop cap, when the
// theme asks for one).
func tagFirstParagraph(chapter *etree.Element) {
	for _, child := range chapter.ChildElements() {
		if child.Tag != "p" {
			continue
		}
		class := child.SelectAttrValue("class", "")
		if class == "" {
			child.CreateAttr("class", "first-paragraph")
		} else if !strings.Contains(class, "first-paragraph") {
			child.CreateAttr("class", class+" first-paragraph")
		}
		return
	}
}
