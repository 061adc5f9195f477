// Package docx reads DOCX (Office Open XML) manuscripts and converts them to
// the normalized HTML intermediate form used by the parser.
package docx

import (
	"encoding/xml"
)

// documentXML mirrors the parts of word/document.xml we care about.
// Namespaces are intentionally ignored - Go's decoder matches local names
// and WordprocessingML element names do not collide within a document body.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

type paragraphXML struct {
	Properties paragraphPropsXML `xml:"pPr"`
	Runs       []runXML          `xml:"r"`
}

type paragraphPropsXML struct {
	Style styleRefXML `xml:"pStyle"`
	Align alignXML    `xml:"jc"`
}

type styleRefXML struct {
	Val string `xml:"val,attr"`
}

type alignXML struct {
	Val string `xml:"val,attr"`
}

type runXML struct {
	Properties runPropsXML  `xml:"rPr"`
	Text       []textXML    `xml:"t"`
	Breaks     []breakXML   `xml:"br"`
	Drawings   []drawingXML `xml:"drawing"`
}

type runPropsXML struct {
	Bold      *toggleXML `xml:"b"`
	Italic    *toggleXML `xml:"i"`
	Underline *toggleXML `xml:"u"`
}

// toggleXML is an OOXML on/off property: present without val means on,
// val="false"/"0" means explicitly off.
type toggleXML struct {
	Val string `xml:"val,attr"`
}

func (t *toggleXML) on() bool {
	if t == nil {
		return false
	}
	return t.Val != "false" && t.Val != "0" && t.Val != "none"
}

type textXML struct {
	Value string `xml:",chardata"`
}

type breakXML struct {
	Type string `xml:"type,attr"`
}

// drawingXML digs out the embed relationship id of an inline picture.
type drawingXML struct {
	Blips []blipXML `xml:"inline>graphic>graphicData>pic>blipFill>blip"`
}

type blipXML struct {
	Embed string `xml:"embed,attr"`
}

// stylesXML mirrors word/styles.xml style display names.
type stylesXML struct {
	XMLName xml.Name   `xml:"styles"`
	Styles  []styleXML `xml:"style"`
}

type styleXML struct {
	Type    string      `xml:"type,attr"`
	StyleID string      `xml:"styleId,attr"`
	Name    styleRefXML `xml:"name"`
}

// corePropertiesXML mirrors docProps/core.xml metadata.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Creator string   `xml:"creator"`
}

// relationshipsXML mirrors word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
