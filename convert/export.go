package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"mpress/catalog"
	"mpress/common"
	"mpress/convert/html"
	"mpress/convert/idml"
	"mpress/manuscript"
	"mpress/state"
	"mpress/theme"
)

// ExportInput carries everything artifact generation needs, resolved once
// per manuscript so generators stay independent of configuration plumbing.
type ExportInput struct {
	Title        string
	Chapters     []manuscript.Chapter
	Theme        theme.BookTheme
	Trim         theme.TrimSize
	Copyright    *html.CopyrightPage
	UserCSS      string
	IncludeBleed bool
	BleedSize    float64
}

// ExportResult describes artifacts produced for a single manuscript.
type ExportResult struct {
	ID       string
	IDMLPath string
	PDFPath  string
}

// Store persists finished artifacts. Keys are relative paths which may
// contain separators, the returned location is implementation specific.
type Store interface {
	Put(key string, data []byte) (string, error)
}

// DirStore keeps artifacts on the local file system under Root.
type DirStore struct {
	Root      string
	Overwrite bool
	FixZip    bool
	Log       *zap.Logger
}

// Put writes data under Root through a temp file. Existing files are only
// replaced when overwrites were requested. IDML archives are optionally
// rewritten to clear data descriptor flags on the way.
func (s *DirStore) Put(key string, data []byte) (string, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(key))

	if _, err := os.Stat(path); err == nil {
		if !s.Overwrite {
			return "", fmt.Errorf("output file already exists: %s", path)
		}
		s.Log.Warn("Overwriting existing file", zap.String("file", path))
		if err = os.Remove(path); err != nil {
			return "", err
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mpress-*")
	if err != nil {
		return "", fmt.Errorf("unable to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("unable to finalize temporary file: %w", err)
	}

	if s.FixZip && strings.EqualFold(filepath.Ext(path), ".idml") {
		if err := idml.Fixup(tmpName, path); err != nil {
			os.Remove(tmpName)
			return "", err
		}
		if err := os.Remove(tmpName); err != nil {
			return "", err
		}
		return path, nil
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}

// exportInput assembles generation input from parsed manuscript and
// resolved environment.
func exportInput(env *state.LocalEnv, doc *manuscript.Document) ExportInput {
	return ExportInput{
		Title:        doc.Title,
		Chapters:     doc.Chapters,
		Theme:        env.Theme,
		Trim:         env.Trim,
		Copyright:    copyrightPage(env),
		UserCSS:      string(env.UserCSS),
		IncludeBleed: env.Cfg.Document.IncludeBleed,
		BleedSize:    env.Cfg.Document.BleedSize,
	}
}

// generateIDML renders the IDML package artifact.
func generateIDML(in ExportInput) ([]byte, error) {
	files, err := idml.BuildPackage(in.Chapters, idml.Options{
		Theme:         in.Theme,
		Trim:          in.Trim,
		DocumentTitle: in.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to build IDML package: %w", err)
	}
	data, err := idml.Bytes(files)
	if err != nil {
		return nil, fmt.Errorf("unable to assemble IDML package: %w", err)
	}
	return data, nil
}

// generatePrintHTML renders the print-ready HTML artifact used for PDF
// production.
func generatePrintHTML(in ExportInput) ([]byte, error) {
	out := html.Generate(in.Chapters, in.Copyright, html.Options{
		Theme:        in.Theme,
		Trim:         in.Trim,
		IncludeBleed: in.IncludeBleed,
		BleedSize:    in.BleedSize,
		UserCSS:      in.UserCSS,
		Title:        in.Title,
	})
	return []byte(out), nil
}

// copyrightPage maps configured copyright fields, nil when nothing is set so
// that no front matter block is emitted.
func copyrightPage(env *state.LocalEnv) *html.CopyrightPage {
	c := env.Cfg.Document.Copyright
	if c.ISBN == "" && c.PublisherName == "" && c.PublishYear == "" &&
		c.CopyrightHolder == "" && c.LegalText == "" && c.AdditionalCredits == "" {
		return nil
	}
	return &html.CopyrightPage{
		ISBN:              c.ISBN,
		PublisherName:     c.PublisherName,
		PublishYear:       c.PublishYear,
		CopyrightHolder:   c.CopyrightHolder,
		LegalText:         c.LegalText,
		AdditionalCredits: c.AdditionalCredits,
	}
}

// generateExport produces all artifacts the requested format asks for and
// hands them to the store. When both artifacts are requested a failure of
// one does not abandon the other, an export with at least one artifact is
// still useful.
func generateExport(ctx context.Context, in ExportInput, baseKey string, format common.ExportFmt, exportID string, store Store, log *zap.Logger) (ExportResult, error) {
	res := ExportResult{ID: exportID}

	var firstErr error
	run := func(f common.ExportFmt, gen func(ExportInput) ([]byte, error)) string {
		key := baseKey + artifactExtension(f)

		var location string
		err := ctx.Err()
		if err == nil {
			var data []byte
			if data, err = gen(in); err == nil {
				location, err = store.Put(key, data)
			}
		}
		if err != nil {
			if format != common.ExportFmtBoth {
				firstErr = err
				return ""
			}
			log.Error("Artifact generation failed, continuing with remaining artifacts",
				zap.Stringer("artifact", f), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			return ""
		}
		log.Debug("Artifact stored", zap.Stringer("artifact", f), zap.String("file", location))
		return location
	}

	if format.WantsIdml() {
		res.IDMLPath = run(common.ExportFmtIdml, generateIDML)
	}
	if format.WantsPdf() && (firstErr == nil || format == common.ExportFmtBoth) {
		res.PDFPath = run(common.ExportFmtPdf, generatePrintHTML)
	}

	if format == common.ExportFmtBoth && (res.IDMLPath != "" || res.PDFPath != "") {
		// partial success is success, failures were already logged
		return res, nil
	}
	return res, firstErr
}

// recordExport stores the export in the catalog. Failures are logged and
// swallowed, catalog bookkeeping must never fail an export.
func recordExport(cat *catalog.Catalog, res ExportResult, src string, format common.ExportFmt, title string, log *zap.Logger) {
	if cat == nil {
		return
	}
	err := cat.Record(catalog.Entry{
		ID:        res.ID,
		Project:   title,
		Source:    src,
		Format:    format.String(),
		IDMLPath:  res.IDMLPath,
		PDFPath:   res.PDFPath,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Warn("Unable to record export in catalog", zap.String("id", res.ID), zap.Error(err))
	}
}
