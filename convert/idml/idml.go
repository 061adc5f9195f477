// Package idml synthesizes an InDesign Markup Language package: a graph of
// interdependent XML files plus a stored mimetype entry, assembled into a
// zip container. The synthesizer emits a structurally valid skeleton with a
// fixed page geometry and style inheritance model; it is not a pagination
// engine.
package idml

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"mpress/manuscript"
	"mpress/theme"
)

const (
	mimetypeContent = "application/vnd.adobe.indesign-idml-package"
	idPkgNamespace  = "http://ns.adobe.com/AdobeInDesign/idml/1.0/packaging"
	domVersion      = "15.0"

	pointsPerInch = 72

	storyIDBase  = 100
	spreadIDBase = 200
)

// Canonical style self references. Stories and resource declarations must
// agree on these strings exactly; the validation pass checks that they do.
const (
	styleBasic         = "ParagraphStyle/$ID/[Basic Paragraph]"
	styleBodyText      = "ParagraphStyle/Body Text"
	styleFirstPara     = "ParagraphStyle/First Paragraph"
	styleChapterTitle  = "ParagraphStyle/Chapter Title"
	styleChapterNumber = "ParagraphStyle/Chapter Number"
	styleBlockQuote    = "ParagraphStyle/Block Quote"

	charNone       = "CharacterStyle/$ID/[No character style]"
	charBold       = "CharacterStyle/Bold"
	charItalic     = "CharacterStyle/Italic"
	charBoldItalic = "CharacterStyle/Bold Italic"

	masterSelf = "udd"
)

// File is one entry of the package in zip-writing order. The mimetype entry
// is always first and must be stored without compression; the container
// format is invalid otherwise.
type File struct {
	Path              string
	Data              []byte
	StoreUncompressed bool
}

// Options selects the typesetting recipe for one package.
type Options struct {
	Theme         theme.BookTheme
	Trim          theme.TrimSize
	DocumentTitle string
}

// BuildPackage renders chapters into the ordered file sequence of an IDML
// package and validates its internal references before returning.
func BuildPackage(chapters []manuscript.Chapter, opts Options) ([]File, error) {
	files := []File{{
		Path:              "mimetype",
		Data:              []byte(mimetypeContent),
		StoreUncompressed: true,
	}}

	add := func(path string, doc *etree.Document) error {
		var buf bytes.Buffer
		if _, err := doc.WriteTo(&buf); err != nil {
			return fmt.Errorf("unable to serialize %s: %w", path, err)
		}
		files = append(files, File{Path: path, Data: buf.Bytes()})
		return nil
	}

	spreads := spreadCount(len(chapters))

	parts := []struct {
		path string
		doc  *etree.Document
	}{
		{"META-INF/container.xml", containerDoc()},
		{"designmap.xml", designMap(len(chapters), spreads, opts)},
		{"Resources/Fonts.xml", fontsDoc(opts.Theme)},
		{"Resources/Styles.xml", stylesDoc(opts.Theme)},
		{"Resources/Preferences.xml", preferencesDoc(opts.Trim)},
		{"Resources/Graphic.xml", graphicDoc()},
		{"MasterSpreads/MasterSpread_" + masterSelf + ".xml", masterSpreadDoc(opts.Theme, opts.Trim)},
	}
	for i, ch := range chapters {
		parts = append(parts, struct {
			path string
			doc  *etree.Document
		}{storyPath(i), storyDoc(ch, i)})
	}
	for j := 0; j < spreads; j++ {
		parts = append(parts, struct {
			path string
			doc  *etree.Document
		}{spreadPath(j), spreadDoc(j, opts.Trim)})
	}

	for _, p := range parts {
		if err := add(p.path, p.doc); err != nil {
			return nil, err
		}
	}

	if err := ValidateReferences(files); err != nil {
		return nil, fmt.Errorf("generated package is not internally consistent: %w", err)
	}
	return files, nil
}

// spreadsPerChapter is a coarse page-count stand-in. Real spread counts
// would require running line breaking over the set text; until such an
// engine exists the consuming application repaginates anyway.
const spreadsPerChapter = 10

// spreadCount estimates how many two-page spreads the document needs.
func spreadCount(chapters int) int {
	return chapters * spreadsPerChapter
}

func storyID(i int) string {
	return fmt.Sprintf("u%d", storyIDBase+i)
}

func storyPath(i int) string {
	return fmt.Sprintf("Stories/Story_%s.xml", storyID(i))
}

func spreadID(j int) string {
	return fmt.Sprintf("u%d", spreadIDBase+j)
}

func spreadPath(j int) string {
	return fmt.Sprintf("Spreads/Spread_%s.xml", spreadID(j))
}

func newDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// newPackageElement opens an idPkg wrapper element the way every IDML
// resource file starts.
func newPackageElement(doc *etree.Document, kind string) *etree.Element {
	el := doc.CreateElement("idPkg:" + kind)
	el.CreateAttr("xmlns:idPkg", idPkgNamespace)
	el.CreateAttr("DOMVersion", domVersion)
	return el
}

func containerDoc() *etree.Document {
	doc := newDoc()
	container := doc.CreateElement("container")
	container.CreateAttr("version", "1.0")
	container.CreateAttr("xmlns", "urn:oasis:names:tc:opendocument:xmlns:container")

	rootfiles := container.CreateElement("rootfiles")
	rootfile := rootfiles.CreateElement("rootfile")
	rootfile.CreateAttr("full-path", "designmap.xml")
	rootfile.CreateAttr("media-type", "text/xml")
	return doc
}

// designMap is the master index of the package: every resource file, the
// master spread, each story in chapter order, then the spread placeholders.
func designMap(chapters, spreads int, opts Options) *etree.Document {
	doc := newDoc()

	root := doc.CreateElement("Document")
	root.CreateAttr("xmlns:idPkg", idPkgNamespace)
	root.CreateAttr("DOMVersion", domVersion)
	root.CreateAttr("Self", "d")
	root.CreateAttr("Name", opts.DocumentTitle)

	ref := func(kind, src string) {
		el := root.CreateElement("idPkg:" + kind)
		el.CreateAttr("src", src)
	}

	ref("Graphic", "Resources/Graphic.xml")
	ref("Fonts", "Resources/Fonts.xml")
	ref("Styles", "Resources/Styles.xml")
	ref("Preferences", "Resources/Preferences.xml")
	ref("MasterSpread", "MasterSpreads/MasterSpread_"+masterSelf+".xml")
	for i := 0; i < chapters; i++ {
		ref("Story", storyPath(i))
	}
	for j := 0; j < spreads; j++ {
		ref("Spread", spreadPath(j))
	}

	var list bytes.Buffer
	for i := 0; i < chapters; i++ {
		if i > 0 {
			list.WriteByte(' ')
		}
		list.WriteString(storyID(i))
	}
	root.CreateAttr("StoryList", list.String())

	return doc
}
