package theme

// TrimSize is the final physical page size of the printed book, in inches.
type TrimSize struct {
	Width  float64
	Height float64
}

// DefaultTrimKey is used whenever an unknown trim size key is requested.
const DefaultTrimKey = "6x9"

// trimSizes are the standard paperback dimensions we support. Keys match the
// public export request surface.
var trimSizes = map[string]TrimSize{
	"5x8":       {Width: 5, Height: 8},
	"5.25x8":    {Width: 5.25, Height: 8},
	"5.5x8.5":   {Width: 5.5, Height: 8.5},
	"6x9":       {Width: 6, Height: 9},
	"6.14x9.21": {Width: 6.14, Height: 9.21},
	"6.69x9.61": {Width: 6.69, Height: 9.61},
	"7x10":      {Width: 7, Height: 10},
	"7.5x9.25":  {Width: 7.5, Height: 9.25},
	"8x10":      {Width: 8, Height: 10},
	"8.5x11":    {Width: 8.5, Height: 11},
}

// LookupTrim returns trim size for the given key, falling back to 6x9 when
// the key is unknown.
func LookupTrim(key string) TrimSize {
	if ts, ok := trimSizes[key]; ok {
		return ts
	}
	return trimSizes[DefaultTrimKey]
}

// TrimKeys returns all supported trim size keys.
func TrimKeys() []string {
	keys := make([]string, 0, len(trimSizes))
	for k := range trimSizes {
		keys = append(keys, k)
	}
	return keys
}
