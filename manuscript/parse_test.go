package manuscript

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestParseHTMLSingleChapterNoHeadings(t *testing.T) {
	body := "<p>Just some plain text with no headings at all, repeated to exceed one hundred characters of body copy for safety.</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1", len(doc.Chapters))
	}
	ch := doc.Chapters[0]
	if ch.Title != "Chapter 1" {
		t.Errorf("title = %q, want %q", ch.Title, "Chapter 1")
	}
	if ch.WordCount != 20 {
		t.Errorf("wordCount = %d, want 20", ch.WordCount)
	}
	if doc.Title != "Untitled Document" {
		t.Errorf("document title = %q, want Untitled Document", doc.Title)
	}
}

func TestParseHTMLExplicitTwoChapters(t *testing.T) {
	body := "<h1>Chapter 1</h1><p>The first body paragraph.</p><h1>Chapter 2</h1><p>The second body paragraph, slightly longer.</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Chapters) != 2 {
		t.Fatalf("chapters = %d, want 2", len(doc.Chapters))
	}
	if doc.Chapters[0].Number != 1 || doc.Chapters[1].Number != 2 {
		t.Errorf("numbers = %d,%d, want 1,2", doc.Chapters[0].Number, doc.Chapters[1].Number)
	}
	if doc.Chapters[0].Title != "Chapter 1" || doc.Chapters[1].Title != "Chapter 2" {
		t.Errorf("titles = %q,%q", doc.Chapters[0].Title, doc.Chapters[1].Title)
	}
	if !strings.Contains(doc.Chapters[0].Content, "first body") {
		t.Errorf("chapter 1 content lost its paragraph: %q", doc.Chapters[0].Content)
	}
	if !strings.Contains(doc.Chapters[1].Content, "second body") {
		t.Errorf("chapter 2 content lost its paragraph: %q", doc.Chapters[1].Content)
	}
}

func TestParseHTMLWordCountInvariants(t *testing.T) {
	body := "<h1>Prologue</h1><p>one two three</p><h1>Chapter 1</h1><p>four five</p><p>six <strong>seven</strong></p><h1>Chapter 2</h1><blockquote>eight nine ten eleven</blockquote>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}

	sum := 0
	for _, ch := range doc.Chapters {
		sum += ch.WordCount
	}
	if doc.TotalWordCount != sum {
		t.Errorf("totalWordCount = %d, sum of chapters = %d", doc.TotalWordCount, sum)
	}
	if doc.TotalWordCount != 11 {
		t.Errorf("totalWordCount = %d, want 11", doc.TotalWordCount)
	}
	want := (doc.TotalWordCount + wordsPerPage - 1) / wordsPerPage
	if doc.EstimatedPageCount != want {
		t.Errorf("estimatedPageCount = %d, want %d", doc.EstimatedPageCount, want)
	}

	for i, ch := range doc.Chapters {
		if ch.Number != i+1 {
			t.Errorf("chapter %d has number %d, numbering must be sequential", i, ch.Number)
		}
	}
}

func TestParseHTMLFallbackTotality(t *testing.T) {
	for _, body := range []string{
		"<p>short</p>",
		"<div>no headings here</div>",
		"plain text without any markup at all",
	} {
		doc, err := ParseHTML(body, zaptest.NewLogger(t))
		if err != nil {
			t.Fatalf("ParseHTML(%q): %v", body, err)
		}
		if len(doc.Chapters) == 0 {
			t.Errorf("ParseHTML(%q) produced no chapters, fallback must always yield one", body)
		}
	}
}

func TestParseHTMLTitleFromTitleNode(t *testing.T) {
	body := `<h1 class="title">My Great Novel</h1><h1>Chapter 1</h1><p>body words here</p>`

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if doc.Title != "My Great Novel" {
		t.Errorf("title = %q, want My Great Novel", doc.Title)
	}
	if len(doc.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1; the title node must not start a chapter", len(doc.Chapters))
	}
}

func TestParseHTMLTitleFromNonGenericHeading(t *testing.T) {
	body := "<h1>The Long Road Home</h1><p>some body words in the opening chapter</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if doc.Title != "The Long Road Home" {
		t.Errorf("title = %q, want the first non-chapter heading", doc.Title)
	}
}

func TestParseHTMLBareBodyText(t *testing.T) {
	body := "Just some plain text with no tags at all, repeated to exceed one hundred characters of body copy for safety."

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1", len(doc.Chapters))
	}
	ch := doc.Chapters[0]
	if ch.WordCount != 20 {
		t.Errorf("wordCount = %d, want 20; bare body text must not be dropped", ch.WordCount)
	}
	if !strings.Contains(ch.Content, "<p>") || !strings.Contains(ch.Content, "plain text") {
		t.Errorf("bare text was not wrapped as a paragraph: %q", ch.Content)
	}
}

func TestParseHTMLBareTextBetweenElements(t *testing.T) {
	body := "<h1>Chapter 1</h1>stray run outside any element<p>and a regular paragraph follows here</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1", len(doc.Chapters))
	}
	if !strings.Contains(doc.Chapters[0].Content, "stray run") {
		t.Errorf("stray text run was lost: %q", doc.Chapters[0].Content)
	}
	if doc.Chapters[0].WordCount != 11 {
		t.Errorf("wordCount = %d, want 11", doc.Chapters[0].WordCount)
	}
}

func TestParseHTMLMappingsGeneratedAtParseTime(t *testing.T) {
	body := "<h1>Chapter 1</h1><p>enough body words to make a chapter out of this</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Mappings) != len(doc.Styles) {
		t.Fatalf("mappings = %d, want one per detected style (%d)", len(doc.Mappings), len(doc.Styles))
	}
	for i, m := range doc.Mappings {
		if m.SourceStyleName != doc.Styles[i].Name {
			t.Errorf("mapping %d source = %q, want %q in input order", i, m.SourceStyleName, doc.Styles[i].Name)
		}
	}
	got := make(map[string]string, len(doc.Mappings))
	for _, m := range doc.Mappings {
		got[m.SourceStyleName] = m.TargetStyleName
	}
	if got["Heading 1"] != "Chapter Title" {
		t.Errorf("Heading 1 mapped to %q, want Chapter Title", got["Heading 1"])
	}
}

func TestParseHTMLOneWordTitleNotMistakenForRoman(t *testing.T) {
	body := "<h1>Mimic</h1><p>the opening chapter follows the one word heading</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if doc.Title != "Mimic" {
		t.Errorf("title = %q, want the one-word heading", doc.Title)
	}
}

func TestParseHTMLOverlongHeadingFoldsIntoBody(t *testing.T) {
	long := strings.Repeat("very long heading ", 20)
	body := "<h1>Chapter 1</h1><p>opening</p><h1>" + long + "</h1><p>stranded</p>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1; an overlong heading must not open a chapter", len(doc.Chapters))
	}
	if !strings.Contains(doc.Chapters[0].Content, "stranded") {
		t.Error("content after the rejected heading must stay with the preceding chapter")
	}
	if len(doc.Messages) == 0 {
		t.Error("rejecting a heading must leave a parser message")
	}
}

func TestParseHTMLInlineStyleDetection(t *testing.T) {
	body := "<h1>Chapter 1</h1><p>plain <strong>bold</strong> and <em>italic</em></p><blockquote>quoted</blockquote>"

	doc, err := ParseHTML(body, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	got := doc.Chapters[0].Styles
	for _, want := range []string{"Bold", "Italic", "Block Quote"} {
		found := false
		for _, s := range got {
			if s == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("styles %v missing %q", got, want)
		}
	}
}

func TestParseHTMLDefaultStyleCatalog(t *testing.T) {
	doc, err := ParseHTML("<p>hello world</p>", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(doc.Styles) != 9 {
		t.Errorf("style catalog size = %d, want the 9 defaults", len(doc.Styles))
	}
}
