package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"mpress/common"
	"mpress/config"
	"mpress/manuscript"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Format     string
	SourceFile string
	ExportID   string
	Chapters   int
	Words      int
	Pages      int
	Date       string
}

func expandTemplate(doc *manuscript.Document, name config.TemplateFieldName, field string, format common.ExportFmt, srcName, exportID string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      doc.Title,
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
		ExportID:   exportID,
		Chapters:   len(doc.Chapters),
		Words:      doc.TotalWordCount,
		Pages:      doc.EstimatedPageCount,
		Date:       time.Now().Format("2006-01-02"),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
