// Package theme is a fixed catalog of typesetting themes and trim (page)
// sizes. Pure lookup, no mutation; unknown keys fall back to defaults so a
// request can never fail to resolve.
package theme

// TitleAlignment values used by chapter opening rules.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Chapter start page policy.
const (
	StartRecto = "recto" // next right-hand page
	StartAny   = "any"
)

// Margins are page margins in inches. Inner/outer are mirrored across the
// spread (verso/recto).
type Margins struct {
	Top    float64
	Bottom float64
	Inner  float64
	Outer  float64
}

// ChapterStyle describes how a chapter opening is typeset.
type ChapterStyle struct {
	TitleAlignment   string
	DropCap          bool
	DropCapLines     int
	ChapterStartPage string
}

// BookTheme is a complete typesetting recipe. Registry-owned and immutable
// at runtime.
type BookTheme struct {
	ID              string
	Name            string
	FontFamily      string
	TitleFontFamily string
	FontSize        float64 // points
	LineHeight      float64 // ratio of font size
	Margins         Margins
	ChapterStyle    ChapterStyle
}

// DefaultThemeID is used whenever an unknown theme id is requested.
const DefaultThemeID = "classic-fiction"

var themes = []BookTheme{
	{
		ID:              "classic-fiction",
		Name:            "Classic Fiction",
		FontFamily:      "Minion Pro",
		TitleFontFamily: "Minion Pro",
		FontSize:        11,
		LineHeight:      1.4,
		Margins:         Margins{Top: 0.75, Bottom: 0.75, Inner: 0.875, Outer: 0.625},
		ChapterStyle: ChapterStyle{
			TitleAlignment:   AlignCenter,
			DropCap:          true,
			DropCapLines:     3,
			ChapterStartPage: StartRecto,
		},
	},
	{
		ID:              "modern-business",
		Name:            "Modern Business",
		FontFamily:      "Open Sans",
		TitleFontFamily: "Montserrat",
		FontSize:        10.5,
		LineHeight:      1.5,
		Margins:         Margins{Top: 0.75, Bottom: 0.75, Inner: 0.75, Outer: 0.75},
		ChapterStyle: ChapterStyle{
			TitleAlignment:   AlignLeft,
			DropCap:          false,
			DropCapLines:     0,
			ChapterStartPage: StartAny,
		},
	},
	{
		ID:              "academic",
		Name:            "Academic",
		FontFamily:      "Times New Roman",
		TitleFontFamily: "Times New Roman",
		FontSize:        12,
		LineHeight:      2.0,
		Margins:         Margins{Top: 1.0, Bottom: 1.0, Inner: 1.25, Outer: 1.0},
		ChapterStyle: ChapterStyle{
			TitleAlignment:   AlignCenter,
			DropCap:          false,
			DropCapLines:     0,
			ChapterStartPage: StartRecto,
		},
	},
}

// Lookup returns the theme for the given id, falling back to the default
// when the id is unknown.
func Lookup(id string) BookTheme {
	for _, t := range themes {
		if t.ID == id {
			return t
		}
	}
	return Lookup(DefaultThemeID)
}

// All returns every registered theme in catalog order.
func All() []BookTheme {
	return append([]BookTheme{}, themes...)
}

// IDs returns the ids of all registered themes.
func IDs() []string {
	ids := make([]string, 0, len(themes))
	for _, t := range themes {
		ids = append(ids, t.ID)
	}
	return ids
}
