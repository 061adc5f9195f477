package idml

import (
	"fmt"

	"github.com/beevik/etree"

	"mpress/theme"
)

// masterSpreadDoc is the two-page A-Master with mirrored margins: the verso
// page carries the outer margin on its left edge, the recto page mirrors it.
func masterSpreadDoc(t theme.BookTheme, trim theme.TrimSize) *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "MasterSpread")

	ms := root.CreateElement("MasterSpread")
	ms.CreateAttr("Self", masterSelf)
	ms.CreateAttr("Name", "A-Master")
	ms.CreateAttr("NamePrefix", "A")
	ms.CreateAttr("BaseName", "Master")
	ms.CreateAttr("PageCount", "2")

	w := trim.Width * pointsPerInch
	h := trim.Height * pointsPerInch
	m := t.Margins

	verso := ms.CreateElement("Page")
	verso.CreateAttr("Self", masterSelf+"Verso")
	verso.CreateAttr("Name", "A")
	verso.CreateAttr("GeometricBounds", bounds(0, -w, h, 0))
	addMargins(verso, m.Top, m.Bottom, m.Outer, m.Inner)

	recto := ms.CreateElement("Page")
	recto.CreateAttr("Self", masterSelf+"Recto")
	recto.CreateAttr("Name", "A")
	recto.CreateAttr("GeometricBounds", bounds(0, 0, h, w))
	addMargins(recto, m.Top, m.Bottom, m.Inner, m.Outer)

	return doc
}

func addMargins(page *etree.Element, top, bottom, left, right float64) {
	mp := page.CreateElement("MarginPreference")
	mp.CreateAttr("Top", pts(top))
	mp.CreateAttr("Bottom", pts(bottom))
	mp.CreateAttr("Left", pts(left))
	mp.CreateAttr("Right", pts(right))
	mp.CreateAttr("ColumnCount", "1")
}

// spreadDoc is one placeholder spread: two facing pages bound to the master
// with absolute geometric bounds in points.
func spreadDoc(j int, trim theme.TrimSize) *etree.Document {
	doc := newDoc()
	root := newPackageElement(doc, "Spread")

	w := trim.Width * pointsPerInch
	h := trim.Height * pointsPerInch

	sp := root.CreateElement("Spread")
	sp.CreateAttr("Self", spreadID(j))
	sp.CreateAttr("AppliedMaster", masterSelf)
	sp.CreateAttr("PageCount", "2")
	sp.CreateAttr("BindingLocation", "1")
	sp.CreateAttr("ItemTransform", fmt.Sprintf("1 0 0 1 0 %g", float64(j)*h))

	left := sp.CreateElement("Page")
	left.CreateAttr("Self", spreadID(j)+"L")
	left.CreateAttr("AppliedMaster", masterSelf)
	left.CreateAttr("GeometricBounds", bounds(0, -w, h, 0))

	right := sp.CreateElement("Page")
	right.CreateAttr("Self", spreadID(j)+"R")
	right.CreateAttr("AppliedMaster", masterSelf)
	right.CreateAttr("GeometricBounds", bounds(0, 0, h, w))

	return doc
}

// bounds formats InDesign geometric bounds: top left bottom right.
func bounds(top, left, bottom, right float64) string {
	return fmt.Sprintf("%g %g %g %g", top, left, bottom, right)
}

// pts converts inches to a point attribute value.
func pts(inches float64) string {
	return fmt.Sprintf("%g", inches*pointsPerInch)
}
