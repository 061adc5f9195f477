package idml

import (
	"fmt"

	"github.com/beevik/etree"

	"mpress/theme"
)

func fontRef(family string) string {
	return "Font/" + family
}

// themeFamilies returns the distinct font families a theme references, body
// font first.
func themeFamilies(t theme.BookTheme) []string {
	families := []string{t.FontFamily}
	if t.TitleFontFamily != "" && t.TitleFontFamily != t.FontFamily {
		families = append(families, t.TitleFontFamily)
	}
	return families
}

// fontsDoc declares one FontFamily per distinct family the theme uses, each
// with Regular, Bold and Italic faces.
func fontsDoc(t theme.BookTheme) *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "Fonts")

	for _, family := range themeFamilies(t) {
		ff := root.CreateElement("FontFamily")
		ff.CreateAttr("Self", fontRef(family))
		ff.CreateAttr("Name", family)

		for _, face := range []string{"Regular", "Bold", "Italic"} {
			f := ff.CreateElement("Font")
			f.CreateAttr("Self", fmt.Sprintf("%s %s", fontRef(family), face))
			f.CreateAttr("FontFamily", family)
			f.CreateAttr("Name", family+" "+face)
			f.CreateAttr("FontStyleName", face)
			f.CreateAttr("FontType", "OpenTypeCFF")
			f.CreateAttr("Status", "Installed")
		}
	}
	return doc
}

// justification maps a theme alignment keyword to the InDesign enum.
func justification(alignment string) string {
	switch alignment {
	case theme.AlignCenter:
		return "CenterAlign"
	case theme.AlignRight:
		return "RightAlign"
	case theme.AlignLeft:
		return "LeftAlign"
	default:
		return "LeftJustified"
	}
}

// stylesDoc emits the paragraph style hierarchy and the minimal character
// style set. [Basic Paragraph] is the root carrying the theme's font
// geometry; Body Text and the chapter styles derive from it.
func stylesDoc(t theme.BookTheme) *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "Styles")

	leading := t.FontSize * t.LineHeight
	bodyFont := fontRef(t.FontFamily)
	titleFont := fontRef(t.TitleFontFamily)
	if t.TitleFontFamily == "" {
		titleFont = bodyFont
	}

	pGroup := root.CreateElement("RootParagraphStyleGroup")
	pGroup.CreateAttr("Self", "pgroup")

	para := func(self, name, basedOn string) *etree.Element {
		p := pGroup.CreateElement("ParagraphStyle")
		p.CreateAttr("Self", self)
		p.CreateAttr("Name", name)
		if basedOn != "" {
			p.CreateAttr("BasedOn", basedOn)
		}
		return p
	}

	basic := para(styleBasic, "[Basic Paragraph]", "")
	basic.CreateAttr("AppliedFont", bodyFont)
	basic.CreateAttr("PointSize", fmt.Sprintf("%g", t.FontSize))
	basic.CreateAttr("Leading", fmt.Sprintf("%g", leading))
	basic.CreateAttr("FirstLineIndent", "21.6")
	basic.CreateAttr("Justification", "LeftJustified")

	body := para(styleBodyText, "Body Text", styleBasic)
	body.CreateAttr("Hyphenation", "true")

	first := para(styleFirstPara, "First Paragraph", styleBodyText)
	first.CreateAttr("FirstLineIndent", "0")
	if t.ChapterStyle.DropCap && t.ChapterStyle.DropCapLines > 0 {
		first.CreateAttr("DropCapCharacters", "1")
		first.CreateAttr("DropCapLines", fmt.Sprintf("%d", t.ChapterStyle.DropCapLines))
	}

	title := para(styleChapterTitle, "Chapter Title", styleBasic)
	title.CreateAttr("AppliedFont", titleFont)
	title.CreateAttr("PointSize", fmt.Sprintf("%g", t.FontSize*2))
	title.CreateAttr("Justification", justification(t.ChapterStyle.TitleAlignment))
	title.CreateAttr("SpaceBefore", "144")
	title.CreateAttr("SpaceAfter", "36")
	title.CreateAttr("KeepWithNext", "1")

	number := para(styleChapterNumber, "Chapter Number", styleBasic)
	number.CreateAttr("AppliedFont", titleFont)
	number.CreateAttr("Capitalization", "AllCaps")
	number.CreateAttr("Tracking", "100")
	number.CreateAttr("Justification", justification(t.ChapterStyle.TitleAlignment))

	quote := para(styleBlockQuote, "Block Quote", styleBodyText)
	quote.CreateAttr("LeftIndent", "36")
	quote.CreateAttr("RightIndent", "36")
	quote.CreateAttr("FontStyle", "Italic")

	cGroup := root.CreateElement("RootCharacterStyleGroup")
	cGroup.CreateAttr("Self", "cgroup")

	char := func(self, name, fontStyle string) {
		c := cGroup.CreateElement("CharacterStyle")
		c.CreateAttr("Self", self)
		c.CreateAttr("Name", name)
		if fontStyle != "" {
			c.CreateAttr("FontStyle", fontStyle)
		}
	}

	char(charNone, "[No character style]", "")
	char(charBold, "Bold", "Bold")
	char(charItalic, "Italic", "Italic")
	char(charBoldItalic, "Bold Italic", "Bold Italic")

	return doc
}

// preferencesDoc carries the document geometry in points. Facing pages and
// optical margin alignment are always on for book work.
func preferencesDoc(trim theme.TrimSize) *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "Preferences")

	dp := root.CreateElement("DocumentPreference")
	dp.CreateAttr("PageWidth", fmt.Sprintf("%g", trim.Width*pointsPerInch))
	dp.CreateAttr("PageHeight", fmt.Sprintf("%g", trim.Height*pointsPerInch))
	dp.CreateAttr("FacingPages", "true")
	dp.CreateAttr("PageBinding", "LeftToRight")

	sp := root.CreateElement("StoryPreference")
	sp.CreateAttr("OpticalMarginAlignment", "true")
	sp.CreateAttr("OpticalMarginSize", "12")

	return doc
}

// graphicDoc is the minimal fixed swatch set every document needs.
func graphicDoc() *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "Graphic")

	black := root.CreateElement("Color")
	black.CreateAttr("Self", "Color/Black")
	black.CreateAttr("Name", "Black")
	black.CreateAttr("Model", "Process")
	black.CreateAttr("ColorValue", "0 0 0 100")

	paper := root.CreateElement("Color")
	paper.CreateAttr("Self", "Color/Paper")
	paper.CreateAttr("Name", "Paper")
	paper.CreateAttr("Model", "Process")
	paper.CreateAttr("ColorValue", "0 0 0 0")

	none := root.CreateElement("Swatch")
	none.CreateAttr("Self", "Swatch/None")
	none.CreateAttr("Name", "None")

	return doc
}
