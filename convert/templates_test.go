package convert

import (
	"strings"
	"testing"

	"mpress/common"
	"mpress/config"
	"mpress/manuscript"
)

func testDocument() *manuscript.Document {
	return &manuscript.Document{
		Title: "The Long Winter",
		Chapters: []manuscript.Chapter{
			{Number: 1, Title: "Chapter 1", WordCount: 120},
			{Number: 2, Title: "Chapter 2", WordCount: 250},
		},
		TotalWordCount:     370,
		EstimatedPageCount: 2,
	}
}

func TestExpandTemplate(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"title only", "{{ .Title }}", "The Long Winter"},
		{"title and format", "{{ .Title }}-{{ .Format }}", "The Long Winter-idml"},
		{"source file", "{{ .SourceFile }}", "draft"},
		{"counters", "{{ .Chapters }}ch-{{ .Words }}w-{{ .Pages }}p", "2ch-370w-2p"},
		{"sprig functions", "{{ lower .Title | replace \" \" \"_\" }}", "the_long_winter"},
		{"export id", "{{ .ExportID }}", "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(doc, config.OutputNameTemplateFieldName, tt.field, common.ExportFmtIdml, "drafts/draft.docx", "abc-123")
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplateDate(t *testing.T) {
	got, err := expandTemplate(testDocument(), config.OutputNameTemplateFieldName, "{{ .Date }}", common.ExportFmtPdf, "a.docx", "id")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if len(got) != len("2006-01-02") || strings.Count(got, "-") != 2 {
		t.Errorf("Date = %q, want YYYY-MM-DD", got)
	}
}

func TestExpandTemplateErrors(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		_, err := expandTemplate(testDocument(), config.OutputNameTemplateFieldName, "{{ .Title", common.ExportFmtIdml, "a.docx", "id")
		if err == nil {
			t.Error("Expected error for malformed template")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := expandTemplate(testDocument(), config.OutputNameTemplateFieldName, "{{ .NoSuchField }}", common.ExportFmtIdml, "a.docx", "id")
		if err == nil {
			t.Error("Expected error for unknown template field")
		}
	})
}
