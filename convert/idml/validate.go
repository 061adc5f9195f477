package idml

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
)

// referenceAttrs are the attributes that must resolve to a Self declared
// somewhere in the package. A dangling reference produces a corrupt,
// non-openable package with no error from the consuming application, so we
// refuse to emit one.
var referenceAttrs = []string{
	"AppliedFont",
	"AppliedParagraphStyle",
	"AppliedCharacterStyle",
	"AppliedMaster",
	"BasedOn",
}

// ValidateReferences checks that every style, font and master reference in
// the package resolves to a declared Self attribute.
func ValidateReferences(files []File) error {
	declared := map[string]bool{}
	type pending struct {
		file, attr, value string
	}
	var refs []pending

	for _, f := range files {
		if f.Path == "mimetype" {
			continue
		}
		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(bytes.NewReader(f.Data)); err != nil {
			return fmt.Errorf("unable to parse %s: %w", f.Path, err)
		}
		walk(doc.Root(), func(el *etree.Element) {
			if self := el.SelectAttrValue("Self", ""); self != "" {
				declared[self] = true
			}
			for _, attr := range referenceAttrs {
				if v := el.SelectAttrValue(attr, ""); v != "" {
					refs = append(refs, pending{file: f.Path, attr: attr, value: v})
				}
			}
		})
	}

	for _, r := range refs {
		if !declared[r.value] {
			return fmt.Errorf("%s: %s=%q does not resolve to any declared Self", r.file, r.attr, r.value)
		}
	}
	return nil
}

func walk(el *etree.Element, visit func(*etree.Element)) {
	if el == nil {
		return
	}
	visit(el)
	for _, child := range el.ChildElements() {
		walk(child, visit)
	}
}
