package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func buildTestDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const documentWithHeadings = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Chapter 1</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Some </w:t></w:r>
      <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
      <w:r><w:t> text.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Quote"/></w:pPr>
      <w:r><w:rPr><w:i/></w:rPr><w:t>quoted words</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

func TestConvertHeadingsAndRuns(t *testing.T) {
	data := buildTestDocx(t, map[string]string{
		"word/document.xml": documentWithHeadings,
	})

	out, err := Convert(data, ConvertOptions{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !strings.Contains(out.BodyHTML, "<h1>Chapter 1</h1>") {
		t.Errorf("Heading 1 style must become h1, got:\n%s", out.BodyHTML)
	}
	if !strings.Contains(out.BodyHTML, "Some <strong>bold</strong> text.") {
		t.Errorf("bold run must become strong, got:\n%s", out.BodyHTML)
	}
	if !strings.Contains(out.BodyHTML, "<blockquote><em>quoted words</em></blockquote>") {
		t.Errorf("Quote style must become blockquote, got:\n%s", out.BodyHTML)
	}
	if len(out.StyleNames) == 0 || out.StyleNames[0] != "Heading 1" {
		t.Errorf("detected styles = %v, want Heading 1 first", out.StyleNames)
	}
}

func TestConvertTitleNode(t *testing.T) {
	data := buildTestDocx(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>My Great Novel</w:t></w:r></w:p>
  </w:body>
</w:document>`,
		"docProps/core.xml": `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Metadata Title</dc:title>
  <dc:creator>Author</dc:creator>
</cp:coreProperties>`,
	})

	out, err := Convert(data, ConvertOptions{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out.BodyHTML, `<h1 class="title">My Great Novel</h1>`) {
		t.Errorf("Title style must become distinguished title node, got:\n%s", out.BodyHTML)
	}
	if out.TitleProp != "Metadata Title" {
		t.Errorf("TitleProp = %q, want %q", out.TitleProp, "Metadata Title")
	}
}

func TestConvertStyleDisplayNames(t *testing.T) {
	data := buildTestDocx(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="MyStyle"/></w:pPr><w:r><w:t>hello</w:t></w:r></w:p>
  </w:body>
</w:document>`,
		"word/styles.xml": `<?xml version="1.0"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="MyStyle"><w:name w:val="My Custom Style"/></w:style>
</w:styles>`,
	})

	out, err := Convert(data, ConvertOptions{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(out.StyleNames) != 1 || out.StyleNames[0] != "My Custom Style" {
		t.Errorf("StyleNames = %v, want [My Custom Style]", out.StyleNames)
	}
}

func TestConvertEscapesText(t *testing.T) {
	data := buildTestDocx(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>a &lt;b&gt; &amp; c</w:t></w:r></w:p>
  </w:body>
</w:document>`,
	})

	out, err := Convert(data, ConvertOptions{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out.BodyHTML, "a &lt;b&gt; &amp; c") {
		t.Errorf("text must stay escaped in intermediate markup, got:\n%s", out.BodyHTML)
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	if _, err := Convert([]byte("this is not a zip archive"), ConvertOptions{}, zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for non-archive input")
	}
}

func TestConvertRejectsArchiveWithoutDocument(t *testing.T) {
	data := buildTestDocx(t, map[string]string{"something.txt": "hello"})
	if _, err := Convert(data, ConvertOptions{}, zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for archive without main document part")
	}
}
