// Package styles defines the canonical typesetting style taxonomy and the
// mapping from source manuscript style names to it.
package styles

// StyleType distinguishes paragraph level styles from character level ones.
type StyleType int

const (
	StyleTypeParagraph StyleType = iota
	StyleTypeCharacter
)

func (t StyleType) String() string {
	if t == StyleTypeCharacter {
		return "character"
	}
	return "paragraph"
}

// Canonical target style names. Everything the generators know how to
// typeset is expressed in terms of these.
const (
	TargetBodyText         = "Body Text"
	TargetChapterTitle     = "Chapter Title"
	TargetSectionHeading   = "Section Heading"
	TargetSubsection       = "Subsection Heading"
	TargetBookTitle        = "Book Title"
	TargetBookSubtitle     = "Book Subtitle"
	TargetFirstParagraph   = "First Paragraph (No Indent)"
	TargetBlockQuotation   = "Block Quotation"
)

// Parsed describes a style detected (or assumed) in the source document.
// Immutable once created by the parser.
type Parsed struct {
	Name       string
	Type       StyleType
	FontSize   float64
	FontFamily string
	Bold       bool
	Italic     bool
	Alignment  string // left, center, right, justify
}

// Acceptance is the tri-state human review status of a mapping.
type Acceptance int

const (
	AcceptanceUnreviewed Acceptance = iota
	AcceptanceAccepted
	AcceptanceRejected
)

func (a Acceptance) String() string {
	switch a {
	case AcceptanceAccepted:
		return "accepted"
	case AcceptanceRejected:
		return "rejected"
	default:
		return "unreviewed"
	}
}

func (t StyleType) MarshalYAML() (any, error) { return t.String(), nil }

func (a Acceptance) MarshalYAML() (any, error) { return a.String(), nil }

// Mapping connects a source style name to a canonical target style.
// Mappings are generated one per detected style; acceptance is mutated later
// by an external review workflow.
type Mapping struct {
	SourceStyleName string     `yaml:"source"`
	SourceStyleType StyleType  `yaml:"type"`
	TargetStyleName string     `yaml:"target"`
	IsAutoDetected  bool       `yaml:"auto_detected"`
	Accepted        Acceptance `yaml:"accepted"`
}

// DefaultCatalog is the fixed style catalog assumed for every document.
// NOTE: this is a placeholder until real per-document style extraction is
// implemented - we do not read style definitions from the source, we assume
// the standard word-processor set.
func DefaultCatalog() []Parsed {
	return []Parsed{
		{Name: "Normal", Type: StyleTypeParagraph, FontSize: 12, FontFamily: "Times New Roman", Alignment: "left"},
		{Name: "Heading 1", Type: StyleTypeParagraph, FontSize: 24, FontFamily: "Times New Roman", Bold: true, Alignment: "left"},
		{Name: "Heading 2", Type: StyleTypeParagraph, FontSize: 18, FontFamily: "Times New Roman", Bold: true, Alignment: "left"},
		{Name: "Heading 3", Type: StyleTypeParagraph, FontSize: 14, FontFamily: "Times New Roman", Bold: true, Alignment: "left"},
		{Name: "Title", Type: StyleTypeParagraph, FontSize: 28, FontFamily: "Times New Roman", Bold: true, Alignment: "center"},
		{Name: "Subtitle", Type: StyleTypeParagraph, FontSize: 16, FontFamily: "Times New Roman", Italic: true, Alignment: "center"},
		{Name: "Body Text", Type: StyleTypeParagraph, FontSize: 12, FontFamily: "Times New Roman", Alignment: "justify"},
		{Name: "First Paragraph", Type: StyleTypeParagraph, FontSize: 12, FontFamily: "Times New Roman", Alignment: "justify"},
		{Name: "Block Quote", Type: StyleTypeParagraph, FontSize: 11, FontFamily: "Times New Roman", Italic: true, Alignment: "left"},
	}
}

// knownTargets is the static lookup from source style names to canonical
// target names. Any name not present here maps to itself.
var knownTargets = map[string]string{
	"Normal":          TargetBodyText,
	"Heading 1":       TargetChapterTitle,
	"Heading 2":       TargetSectionHeading,
	"Heading 3":       TargetSubsection,
	"Title":           TargetBookTitle,
	"Subtitle":        TargetBookSubtitle,
	"Body Text":       TargetBodyText,
	"First Paragraph": TargetFirstParagraph,
	"Block Quote":     TargetBlockQuotation,
}

// TargetFor returns the canonical target style name for a source style name.
// Unknown names map to themselves so that custom styles survive into the
// mapping stage instead of being silently dropped.
func TargetFor(sourceName string) string {
	if target, ok := knownTargets[sourceName]; ok {
		return target
	}
	return sourceName
}

// GenerateMappings produces exactly one mapping per input style, preserving
// input order. All mappings are auto-detected and unreviewed; the acceptance
// workflow happens elsewhere.
func GenerateMappings(detected []Parsed) []Mapping {
	mappings := make([]Mapping, 0, len(detected))
	for _, s := range detected {
		mappings = append(mappings, Mapping{
			SourceStyleName: s.Name,
			SourceStyleType: s.Type,
			TargetStyleName: TargetFor(s.Name),
			IsAutoDetected:  true,
			Accepted:        AcceptanceUnreviewed,
		})
	}
	return mappings
}
