package docx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"mpress/utils/images"
)

// ConvertOptions controls embedded image handling.
type ConvertOptions struct {
	OptimizeImages bool
	JPEGQuality    int
	MaxImageWidth  int
}

// Converted is the normalized intermediate produced from a DOCX manuscript:
// a single HTML-like body string plus whatever style evidence the document
// carried.
type Converted struct {
	TitleProp  string   // document title from core properties, may be empty
	BodyHTML   string   // normalized body markup
	StyleNames []string // distinct paragraph style display names, document order
}

// builtinStyleNames resolves well known style ids when word/styles.xml is
// absent or does not name them.
var builtinStyleNames = map[string]string{
	"Normal":         "Normal",
	"Title":          "Title",
	"Subtitle":       "Subtitle",
	"Heading1":       "Heading 1",
	"Heading2":       "Heading 2",
	"Heading3":       "Heading 3",
	"Heading4":       "Heading 4",
	"Heading5":       "Heading 5",
	"Heading6":       "Heading 6",
	"BodyText":       "Body Text",
	"FirstParagraph": "First Paragraph",
	"Quote":          "Block Quote",
	"BlockQuote":     "Block Quote",
	"IntenseQuote":   "Block Quote",
}

// Convert reads a DOCX package from memory and produces the normalized HTML
// intermediate. It fails when the archive or its main document part cannot
// be read; everything else degrades gracefully.
func Convert(data []byte, opts ConvertOptions, log *zap.Logger) (*Converted, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to open manuscript archive: %w", err)
	}

	docData, err := partContent(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("unable to read main document part: %w", err)
	}

	var doc documentXML
	if err := xml.Unmarshal(docData, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse main document part: %w", err)
	}

	r := &reader{zr: zr, opts: opts, log: log}
	r.loadStyles()
	r.loadRelationships()

	out := &Converted{}
	if props := r.loadCoreProperties(); props != nil {
		out.TitleProp = strings.TrimSpace(props.Title)
	}

	var (
		buf  strings.Builder
		seen = map[string]bool{}
	)
	for _, p := range doc.Body.Paragraphs {
		name := r.styleName(p.Properties.Style.Val)
		if name != "" && !seen[name] {
			seen[name] = true
			out.StyleNames = append(out.StyleNames, name)
		}
		r.appendParagraph(&buf, p, name)
	}
	out.BodyHTML = buf.String()

	return out, nil
}

type reader struct {
	zr    *zip.Reader
	opts  ConvertOptions
	log   *zap.Logger
	names map[string]string // style id -> display name
	rels  map[string]string // relationship id -> target part
}

func partContent(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("part not found: %s", name)
}

func (r *reader) loadStyles() {
	r.names = make(map[string]string)

	data, err := partContent(r.zr, "word/styles.xml")
	if err != nil {
		// styles part is optional
		return
	}
	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		r.log.Debug("Unable to parse styles part, using builtin names", zap.Error(err))
		return
	}
	for _, s := range styles.Styles {
		if s.Type == "paragraph" && s.StyleID != "" && s.Name.Val != "" {
			r.names[s.StyleID] = s.Name.Val
		}
	}
}

func (r *reader) loadRelationships() {
	r.rels = make(map[string]string)

	data, err := partContent(r.zr, "word/_rels/document.xml.rels")
	if err != nil {
		return
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		r.log.Debug("Unable to parse relationships part", zap.Error(err))
		return
	}
	for _, rel := range rels.Relationships {
		r.rels[rel.ID] = rel.Target
	}
}

func (r *reader) loadCoreProperties() *corePropertiesXML {
	data, err := partContent(r.zr, "docProps/core.xml")
	if err != nil {
		return nil
	}
	var props corePropertiesXML
	if err := xml.Unmarshal(data, &props); err != nil {
		return nil
	}
	return &props
}

// styleName resolves a paragraph style id to its display name.
func (r *reader) styleName(id string) string {
	if id == "" {
		return ""
	}
	if name, ok := r.names[id]; ok {
		return name
	}
	if name, ok := builtinStyleNames[id]; ok {
		return name
	}
	return id
}

// tagFor maps a style display name to the intermediate markup node. The
// distinguished title node carries class="title" so the parser can tell the
// book title from a plain chapter heading.
func tagFor(styleName string) (tag, class string) {
	switch styleName {
	case "Title":
		return "h1", "title"
	case "Subtitle":
		return "p", "subtitle"
	case "Heading 1":
		return "h1", ""
	case "Heading 2":
		return "h2", ""
	case "Heading 3":
		return "h3", ""
	case "Heading 4":
		return "h4", ""
	case "Heading 5":
		return "h5", ""
	case "Heading 6":
		return "h6", ""
	case "Block Quote":
		return "blockquote", ""
	default:
		return "p", ""
	}
}

func (r *reader) appendParagraph(buf *strings.Builder, p paragraphXML, styleName string) {
	var inner strings.Builder
	for _, run := range p.Runs {
		r.appendRun(&inner, run)
	}
	if strings.TrimSpace(inner.String()) == "" && !strings.Contains(inner.String(), "<img") {
		return
	}

	tag, class := tagFor(styleName)
	buf.WriteString("<" + tag)
	if class != "" {
		buf.WriteString(` class="` + class + `"`)
	}
	if align := p.Properties.Align.Val; align == "center" || align == "right" {
		buf.WriteString(` style="text-align:` + align + `"`)
	}
	buf.WriteString(">")
	buf.WriteString(inner.String())
	buf.WriteString("</" + tag + ">\n")
}

func (r *reader) appendRun(buf *strings.Builder, run runXML) {
	var opening, closing string
	if run.Properties.Bold.on() {
		opening += "<strong>"
		closing = "</strong>" + closing
	}
	if run.Properties.Italic.on() {
		opening += "<em>"
		closing = "</em>" + closing
	}
	if run.Properties.Underline.on() {
		opening += "<u>"
		closing = "</u>" + closing
	}

	var text strings.Builder
	for _, t := range run.Text {
		text.WriteString(html.EscapeString(t.Value))
	}
	for range run.Breaks {
		text.WriteString("<br/>")
	}
	for _, d := range run.Drawings {
		for _, blip := range d.Blips {
			if img := r.imageDataURI(blip.Embed); img != "" {
				text.WriteString(`<img src="` + img + `"/>`)
			}
		}
	}

	if text.Len() == 0 {
		return
	}
	buf.WriteString(opening)
	buf.WriteString(text.String())
	buf.WriteString(closing)
}

// imageDataURI resolves a picture relationship and inlines the media file as
// a data URI, optionally downscaled and re-encoded.
func (r *reader) imageDataURI(relID string) string {
	target, ok := r.rels[relID]
	if !ok {
		return ""
	}
	data, err := partContent(r.zr, path.Join("word", target))
	if err != nil {
		r.log.Debug("Referenced media part not found", zap.String("target", target))
		return ""
	}
	if !filetype.IsImage(data) {
		r.log.Debug("Skipping non-raster media", zap.String("target", target))
		return ""
	}

	mime := "application/octet-stream"
	if kind, err := filetype.Image(data); err == nil {
		mime = kind.MIME.Value
	}

	if r.opts.OptimizeImages {
		if optimized, m, err := images.Optimize(data, r.opts.MaxImageWidth, r.opts.JPEGQuality); err == nil {
			data, mime = optimized, m
		} else {
			r.log.Debug("Unable to optimize image, using original", zap.String("target", target), zap.Error(err))
		}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
