// Package common keeps enums shared between configuration and conversion code
// so that neither has to import the other.
package common

import (
	"fmt"
	"strings"
)

// ExportFmt specifies requested export artifact type.
type ExportFmt int

const (
	ExportFmtIdml ExportFmt = iota
	ExportFmtPdf
	ExportFmtBoth
)

var exportFmtNames = []string{"idml", "pdf", "both"}

func (e ExportFmt) String() string {
	if e < 0 || int(e) >= len(exportFmtNames) {
		// this should never happen
		panic("unsupported export format requested")
	}
	return exportFmtNames[e]
}

// ParseExportFmt converts a string to ExportFmt.
func ParseExportFmt(name string) (ExportFmt, error) {
	for i, n := range exportFmtNames {
		if strings.EqualFold(name, n) {
			return ExportFmt(i), nil
		}
	}
	return ExportFmtBoth, fmt.Errorf("%q is not a valid export format", name)
}

// ExportFmtNames returns names of all supported export formats.
func ExportFmtNames() []string {
	return append([]string{}, exportFmtNames...)
}

// WantsIdml reports whether IDML artifact generation is requested.
func (e ExportFmt) WantsIdml() bool {
	return e == ExportFmtIdml || e == ExportFmtBoth
}

// WantsPdf reports whether print HTML (PDF source) generation is requested.
func (e ExportFmt) WantsPdf() bool {
	return e == ExportFmtPdf || e == ExportFmtBoth
}

// PaperStock specifies paper used for spine width calculation.
type PaperStock int

const (
	PaperStockWhite PaperStock = iota
	PaperStockCream
	PaperStockColor
)

var paperStockNames = []string{"white", "cream", "color"}

func (p PaperStock) String() string {
	if p < 0 || int(p) >= len(paperStockNames) {
		// this should never happen
		panic("unsupported paper stock requested")
	}
	return paperStockNames[p]
}

// ParsePaperStock converts a string to PaperStock.
func ParsePaperStock(name string) (PaperStock, error) {
	for i, n := range paperStockNames {
		if strings.EqualFold(name, n) {
			return PaperStock(i), nil
		}
	}
	return PaperStockWhite, fmt.Errorf("%q is not a valid paper stock", name)
}

// PaperStockNames returns names of all supported paper stocks.
func PaperStockNames() []string {
	return append([]string{}, paperStockNames...)
}
