package idml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	xhtml "golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mpress/manuscript"
)

// storyDoc renders one chapter: a chapter-number paragraph, a chapter-title
// paragraph, then the body converted from the chapter's markup.
func storyDoc(ch manuscript.Chapter, index int) *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "Story")

	story := root.CreateElement("Story")
	story.CreateAttr("Self", storyID(index))
	story.CreateAttr("StoryTitle", ch.Title)

	// casers are stateful, do not share between stories
	allCaps := cases.Upper(language.English)
	addPlainParagraph(story, styleChapterNumber, allCaps.String(fmt.Sprintf("Chapter %d", ch.Number)))
	addPlainParagraph(story, styleChapterTitle, ch.Title)

	convertBody(story, ch.Content)

	return doc
}

func addPlainParagraph(story *etree.Element, style, text string) {
	pr := story.CreateElement("ParagraphStyleRange")
	pr.CreateAttr("AppliedParagraphStyle", style)
	cr := pr.CreateElement("CharacterStyleRange")
	cr.CreateAttr("AppliedCharacterStyle", charNone)
	cr.CreateElement("Content").SetText(text)
}

// storyBuilder tracks conversion state while walking chapter markup. A new
// CharacterStyleRange opens whenever the effective bold/italic state
// changes; closing a span falls back to [No character style].
type storyBuilder struct {
	story     *etree.Element
	paragraph *etree.Element
	rng       *etree.Element
	bold      int
	italic    int
	inQuote   int
	paraCount int
}

// convertBody splits chapter markup on paragraph boundaries and emits the
// alternating style ranges. The first paragraph of a chapter is set in
// First Paragraph, everything after in Body Text; block quotes keep their
// own style. Unknown inline tags are stripped, text is escaped by the
// serializer.
func convertBody(story *etree.Element, markup string) {
	b := &storyBuilder{story: story}

	z := xhtml.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			b.openTag(string(name))
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			b.closeTag(string(name))
		case xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.lineBreak()
			}
		case xhtml.TextToken:
			b.text(string(z.Text()))
		}
	}
}

func (b *storyBuilder) openTag(name string) {
	switch name {
	case "p", "h2", "h3", "h4", "li":
		b.startParagraph()
	case "blockquote":
		b.inQuote++
		b.paragraph = nil
	case "strong", "b":
		b.bold++
		b.rng = nil
	case "em", "i":
		b.italic++
		b.rng = nil
	case "br":
		b.lineBreak()
	}
}

func (b *storyBuilder) closeTag(name string) {
	switch name {
	case "p", "h2", "h3", "h4", "li":
		b.paragraph, b.rng = nil, nil
	case "blockquote":
		if b.inQuote > 0 {
			b.inQuote--
		}
		b.paragraph, b.rng = nil, nil
	case "strong", "b":
		if b.bold > 0 {
			b.bold--
		}
		b.rng = nil
	case "em", "i":
		if b.italic > 0 {
			b.italic--
		}
		b.rng = nil
	}
}

func (b *storyBuilder) startParagraph() {
	style := styleBodyText
	switch {
	case b.inQuote > 0:
		style = styleBlockQuote
	case b.paraCount == 0:
		style = styleFirstPara
	}
	b.paraCount++

	b.paragraph = b.story.CreateElement("ParagraphStyleRange")
	b.paragraph.CreateAttr("AppliedParagraphStyle", style)
	b.rng = nil
}

func (b *storyBuilder) characterStyle() string {
	switch {
	case b.bold > 0 && b.italic > 0:
		return charBoldItalic
	case b.bold > 0:
		return charBold
	case b.italic > 0:
		return charItalic
	default:
		return charNone
	}
}

func (b *storyBuilder) ensureRange() *etree.Element {
	if b.paragraph == nil {
		b.startParagraph()
	}
	if b.rng == nil {
		b.rng = b.paragraph.CreateElement("CharacterStyleRange")
		b.rng.CreateAttr("AppliedCharacterStyle", b.characterStyle())
	}
	return b.rng
}

func (b *storyBuilder) text(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	b.ensureRange().CreateElement("Content").SetText(s)
}

func (b *storyBuilder) lineBreak() {
	b.ensureRange().CreateElement("Br")
}
