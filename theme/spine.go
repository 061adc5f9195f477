package theme

import (
	"mpress/common"
)

// Per-page thickness in inches for each paper stock. Values come from
// print-on-demand paper specifications.
var spineFactors = map[common.PaperStock]float64{
	common.PaperStockWhite: 0.002252,
	common.PaperStockCream: 0.0025,
	common.PaperStockColor: 0.002347,
}

const inchesToMM = 25.4

// SpineWidth returns spine thickness in inches for the given page count and
// paper stock.
func SpineWidth(pageCount int, stock common.PaperStock) float64 {
	return float64(pageCount) * spineFactors[stock]
}

// SpineWidthMM returns spine thickness in millimeters.
func SpineWidthMM(pageCount int, stock common.PaperStock) float64 {
	return SpineWidth(pageCount, stock) * inchesToMM
}
