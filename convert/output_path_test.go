package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"mpress/common"
	"mpress/config"
	"mpress/state"
)

func testEnv(t *testing.T, nameTemplate string, transliterate bool) *state.LocalEnv {
	t.Helper()
	return &state.LocalEnv{
		Cfg: &config.Config{
			Version: 1,
			Document: config.DocumentConfig{
				OutputNameTemplate:    nameTemplate,
				FileNameTransliterate: transliterate,
			},
		},
		Log: zaptest.NewLogger(t),
	}
}

func TestBuildOutputKey_DefaultNaming(t *testing.T) {
	env := testEnv(t, "", false)
	doc := testDocument()

	got := buildOutputKey(doc, filepath.Join("drafts", "My Draft.docx"), common.ExportFmtIdml, "id", env)
	want := filepath.Join("drafts", "My Draft")
	if got != want {
		t.Errorf("buildOutputKey() = %q, want %q", got, want)
	}
}

func TestBuildOutputKey_NoDirs(t *testing.T) {
	env := testEnv(t, "", false)
	env.NoDirs = true
	doc := testDocument()

	got := buildOutputKey(doc, filepath.Join("drafts", "draft.docx"), common.ExportFmtIdml, "id", env)
	want := "draft"
	if got != want {
		t.Errorf("buildOutputKey() = %q, want %q", got, want)
	}
}

func TestBuildOutputKey_Template(t *testing.T) {
	env := testEnv(t, "{{ .Title }}", false)
	doc := testDocument()

	got := buildOutputKey(doc, "draft.docx", common.ExportFmtIdml, "id", env)
	want := "The Long Winter"
	if got != want {
		t.Errorf("buildOutputKey() = %q, want %q", got, want)
	}
}

func TestBuildOutputKey_TemplateWithSubdirs(t *testing.T) {
	env := testEnv(t, "{{ .Format }}/{{ .Title }}", false)
	doc := testDocument()

	got := buildOutputKey(doc, "draft.docx", common.ExportFmtPdf, "id", env)
	want := filepath.Join("pdf", "The Long Winter")
	if got != want {
		t.Errorf("buildOutputKey() = %q, want %q", got, want)
	}
}

func TestBuildOutputKey_BadTemplateFallsBack(t *testing.T) {
	env := testEnv(t, "{{ .NoSuchField }}", false)
	doc := testDocument()

	got := buildOutputKey(doc, "draft.docx", common.ExportFmtIdml, "id", env)
	want := "draft"
	if got != want {
		t.Errorf("buildOutputKey() = %q, want fallback %q", got, want)
	}
}

func TestBuildOutputKey_Transliterate(t *testing.T) {
	env := testEnv(t, "{{ .Title }}", true)
	doc := testDocument()
	doc.Title = "Зимняя книга"

	got := buildOutputKey(doc, "draft.docx", common.ExportFmtIdml, "id", env)
	want := "zimnyaya-kniga"
	if got != want {
		t.Errorf("buildOutputKey() = %q, want %q", got, want)
	}
}

func TestArtifactExtension(t *testing.T) {
	if got := artifactExtension(common.ExportFmtIdml); got != ".idml" {
		t.Errorf("artifactExtension(idml) = %q", got)
	}
	if got := artifactExtension(common.ExportFmtPdf); got != ".html" {
		t.Errorf("artifactExtension(pdf) = %q", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for both")
		}
	}()
	artifactExtension(common.ExportFmtBoth)
}
