// Package manuscript turns raw word-processor bytes into a structured
// document: title, ordered chapters and a detected style list. Segmentation
// is heuristic and never fails on unconventional structure - the worst case
// is a single whole-document chapter.
package manuscript

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"mpress/docx"
	"mpress/styles"
)

const wordsPerPage = 250

// Chapter is one segmented unit of the manuscript body.
type Chapter struct {
	Number    int    // 1-based, sequential in document order
	Title     string
	Content   string // normalized markup, heading excluded
	WordCount int    // whitespace-delimited tokens of Content with markup stripped
	Styles    []string
}

// Document is the single output of the parsing stage and the sole input,
// with theme and trim selections, to both generators.
type Document struct {
	Title              string
	Chapters           []Chapter
	Styles             []styles.Parsed
	Mappings           []styles.Mapping // one per detected style, generated at parse time
	TotalWordCount     int
	EstimatedPageCount int
	RawHTML            string
	Messages           []string
}

// Options controls the conversion step that precedes segmentation.
type Options struct {
	Images docx.ConvertOptions
}

// Parse converts DOCX bytes to the normalized intermediate and segments it
// into chapters. It fails only when the bytes cannot be converted at all.
func Parse(data []byte, opts Options, log *zap.Logger) (*Document, error) {
	conv, err := docx.Convert(data, opts.Images, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse manuscript: %w", err)
	}
	return parseBody(conv.BodyHTML, conv.TitleProp, conv.StyleNames, log)
}

// ParseHTML segments already normalized markup. Useful when the intermediate
// form comes from somewhere other than a DOCX package.
func ParseHTML(body string, log *zap.Logger) (*Document, error) {
	return parseBody(body, "", nil, log)
}

// segment is a stretch of body content between heading boundaries.
type segment struct {
	heading string // empty for the leading heading-less stretch
	html    strings.Builder
	text    strings.Builder
}

// built is a chapter under assembly, text kept alongside markup so word
// counting does not require a second markup pass.
type built struct {
	title string
	html  strings.Builder
	text  strings.Builder
}

func parseBody(body, metaTitle string, styleNames []string, log *zap.Logger) (*Document, error) {
	q, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to segment document body: %w", err)
	}

	doc := &Document{RawHTML: body, Styles: styleCatalog(styleNames)}
	doc.Mappings = styles.GenerateMappings(doc.Styles)

	var (
		titleNode    string
		firstHeading string
		current      = &segment{}
		segments     = []*segment{current}
	)
	q.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#text" {
			// a bare text run directly under body gets an implicit
			// paragraph wrapper so it survives segmentation
			bare := strings.TrimSpace(s.Text())
			if bare == "" {
				return
			}
			current.html.WriteString("<p>" + html.EscapeString(bare) + "</p>\n")
			current.text.WriteString(bare + "\n")
			return
		}
		if strings.HasPrefix(name, "#") {
			return
		}
		if name == "h1" {
			text := strings.TrimSpace(s.Text())
			if s.HasClass("title") {
				if titleNode == "" {
					titleNode = text
				}
				return
			}
			if firstHeading == "" {
				firstHeading = text
			}
			current = &segment{heading: text}
			segments = append(segments, current)
			return
		}
		markup, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		current.html.WriteString(markup)
		current.html.WriteString("\n")
		current.text.WriteString(s.Text())
		current.text.WriteString("\n")
	})

	var (
		out     []*built
		pending built // content without a chapter of its own yet
	)

	lead := segments[0]
	if t := strings.TrimSpace(lead.text.String()); t != "" {
		if len(t) > implicitChapterMin {
			b := &built{title: "Chapter 1"}
			b.html.WriteString(lead.html.String())
			b.text.WriteString(lead.text.String())
			out = append(out, b)
		} else {
			pending.html.WriteString(lead.html.String())
			pending.text.WriteString(lead.text.String())
			doc.Messages = append(doc.Messages, "short content before the first chapter heading was merged into the first chapter")
		}
	}

	for _, seg := range segments[1:] {
		if ClassifySegment(seg.heading, true) != SegmentChapterTitle {
			doc.Messages = append(doc.Messages, fmt.Sprintf("heading %q does not look like a chapter title, keeping it as body text", clip(seg.heading, 60)))
			dst := &pending
			if len(out) > 0 {
				dst = out[len(out)-1]
			}
			if seg.heading != "" {
				dst.html.WriteString("<p>" + html.EscapeString(seg.heading) + "</p>\n")
				dst.text.WriteString(seg.heading + "\n")
			}
			dst.html.WriteString(seg.html.String())
			dst.text.WriteString(seg.text.String())
			continue
		}
		b := &built{title: strings.TrimSpace(seg.heading)}
		if pending.html.Len() > 0 {
			b.html.WriteString(pending.html.String())
			b.text.WriteString(pending.text.String())
			pending = built{}
		}
		b.html.WriteString(seg.html.String())
		b.text.WriteString(seg.text.String())
		out = append(out, b)
	}

	if len(out) == 0 {
		// always produce something exportable
		b := &built{title: "Chapter 1"}
		b.html.WriteString(pending.html.String())
		b.text.WriteString(pending.text.String())
		out = append(out, b)
		doc.Messages = append(doc.Messages, "no chapter structure detected, the whole document becomes a single chapter")
	}

	for i, b := range out {
		content := strings.TrimSpace(b.html.String())
		words := len(strings.Fields(b.text.String()))
		doc.Chapters = append(doc.Chapters, Chapter{
			Number:    i + 1,
			Title:     b.title,
			Content:   content,
			WordCount: words,
			Styles:    detectInlineStyles(content),
		})
		doc.TotalWordCount += words
	}
	doc.EstimatedPageCount = (doc.TotalWordCount + wordsPerPage - 1) / wordsPerPage

	doc.Title = deriveTitle(titleNode, metaTitle, firstHeading, doc.Chapters)

	log.Debug("Parsed manuscript",
		zap.String("title", doc.Title),
		zap.Int("chapters", len(doc.Chapters)),
		zap.Int("words", doc.TotalWordCount),
		zap.Int("pages", doc.EstimatedPageCount))

	return doc, nil
}

// deriveTitle applies the title priority chain: explicit title node, package
// metadata, first non-chapter heading, first chapter title when it is not a
// generic "Chapter N", then a fixed fallback.
func deriveTitle(titleNode, metaTitle, firstHeading string, chapters []Chapter) string {
	switch {
	case titleNode != "":
		return titleNode
	case metaTitle != "":
		return metaTitle
	case firstHeading != "" && len(firstHeading) < shortTitleMax && !matchesChapterSignal(firstHeading):
		return firstHeading
	case len(chapters) > 0 && chapters[0].Title != "" && !genericChapterTitle.MatchString(chapters[0].Title):
		return chapters[0].Title
	default:
		return "Untitled Document"
	}
}

// inlineStyleTags associates markup evidence with secondary style usage
// inside a chapter.
var inlineStyleTags = []struct {
	marker string
	style  string
}{
	{"<strong>", "Bold"},
	{"<em>", "Italic"},
	{"<u>", "Underline"},
	{"<blockquote", "Block Quote"},
	{"<h2", "Heading 2"},
	{"<h3", "Heading 3"},
	{"<li", "List"},
}

func detectInlineStyles(content string) []string {
	var found []string
	for _, t := range inlineStyleTags {
		if strings.Contains(content, t.marker) {
			found = append(found, t.style)
		}
	}
	return found
}

// styleCatalog wraps detected style names, falling back to the fixed default
// catalog when the document carried no usable style metadata.
func styleCatalog(names []string) []styles.Parsed {
	if len(names) == 0 {
		return styles.DefaultCatalog()
	}
	out := make([]styles.Parsed, 0, len(names))
	for _, n := range names {
		out = append(out, styles.Parsed{Name: n, Type: styles.StyleTypeParagraph})
	}
	return out
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
