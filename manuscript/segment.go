package manuscript

import (
	"regexp"
	"strings"
)

// Classification is the outcome of looking at one stretch of document text
// during chapter detection.
type Classification int

const (
	// SegmentBody is ordinary flow content.
	SegmentBody Classification = iota
	// SegmentChapterTitle opens a new chapter.
	SegmentChapterTitle
)

const (
	// shortTitleMax caps how long a heading can be and still pass for a
	// chapter title.
	shortTitleMax = 200
	// implicitChapterMin is the minimal stripped length for a heading-less
	// leading segment to become an implicit first chapter.
	implicitChapterMin = 100
)

// chapterSignals are evaluated in order, first match wins. Keep the list
// explicit so the heuristic stays testable.
var chapterSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^chapter\s+\d+`),
	regexp.MustCompile(`(?i)^part\s+\d+`),
	regexp.MustCompile(`(?i)^prologue$`),
	regexp.MustCompile(`(?i)^epilogue$`),
	// valid roman sequences only, a bare run of roman letters would also
	// swallow ordinary words like "Did" or "Mimic"
	regexp.MustCompile(`(?i)^(?:chapter\s+)?(?:m{1,3}(?:cm|cd|d?c{0,3})(?:xc|xl|l?x{0,3})(?:ix|iv|v?i{0,3})|(?:cm|cd|d?c{1,3}|d)(?:xc|xl|l?x{0,3})(?:ix|iv|v?i{0,3})|(?:xc|xl|l?x{1,3}|l)(?:ix|iv|v?i{0,3})|ix|iv|v?i{1,3}|v)\.?$`),
	regexp.MustCompile(`^\d+\.(\s|$)`),
}

var genericChapterTitle = regexp.MustCompile(`(?i)^chapter\s+\d+$`)

// ClassifySegment decides whether a stretch of text opens a new chapter.
// afterHeadingSplit reports that the text came off a heading boundary in the
// normalized markup; such text is accepted as a title even without a
// recognizable chapter pattern, as long as it is short enough.
func ClassifySegment(text string, afterHeadingSplit bool) Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(trimmed) >= shortTitleMax {
		return SegmentBody
	}
	for _, re := range chapterSignals {
		if re.MatchString(trimmed) {
			return SegmentChapterTitle
		}
	}
	if afterHeadingSplit {
		return SegmentChapterTitle
	}
	return SegmentBody
}

func matchesChapterSignal(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, re := range chapterSignals {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
