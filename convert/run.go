package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"mpress/archive"
	"mpress/catalog"
	"mpress/common"
	"mpress/css"
	"mpress/docx"
	"mpress/manuscript"
	"mpress/state"
	"mpress/theme"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := common.ParseExportFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown export format requested, switching to both", zap.Error(err))
		format = common.ExportFmtBoth
	}

	// Command line selections win over configuration, unknown names fall
	// back to defaults.
	themeName := cmd.String("theme")
	if themeName == "" {
		themeName = env.Cfg.Document.Theme
	}
	env.Theme = theme.Lookup(themeName)
	if env.Theme.ID != themeName {
		log.Debug("Unknown theme requested, using default", zap.String("requested", themeName), zap.String("using", env.Theme.ID))
	}

	trimName := cmd.String("trim")
	if trimName == "" {
		trimName = env.Cfg.Document.TrimSize
	}
	env.Trim = theme.LookupTrim(trimName)

	if env.Cfg.Document.StylesheetPath != "" {
		data, err := os.ReadFile(env.Cfg.Document.StylesheetPath)
		if err != nil {
			return fmt.Errorf("unable to read style css from %q: %w", env.Cfg.Document.StylesheetPath, err)
		}
		sanitized, warnings := css.NewParser(log).Sanitize(data)
		for _, w := range warnings {
			log.Warn("Dropping unsupported user stylesheet construct", zap.String("what", w))
		}
		env.UserCSS = []byte(sanitized)
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	if env.Cfg.Catalog.Enable {
		cat, err := catalog.Open(env.Cfg.Catalog.Path, log)
		if err != nil {
			log.Warn("Unable to open export catalog, continuing without it", zap.String("path", env.Cfg.Catalog.Path), zap.Error(err))
		} else {
			env.Cat = cat
			defer func() {
				if cerr := cat.Close(); cerr != nil {
					log.Warn("Unable to close export catalog", zap.Error(cerr))
				}
				env.Cat = nil
			}()
		}
	}

	store := &DirStore{
		Root:      dst,
		Overwrite: env.Overwrite,
		FixZip:    env.Cfg.Document.FixZip,
		Log:       log,
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, store, format, log)
}

// process handles the core export logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and
// processes accordingly.
func process(ctx context.Context, src string, store Store, format common.ExportFmt, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, store, format, log); err != nil {
				return errors.New("unable to process directory")
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arch, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arch {
			if err := processArchive(ctx, head, "", store, format, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		book, err := isManuscriptFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if book && len(tail) == 0 {
			// we have manuscript, it cannot have tail
			data, err := os.ReadFile(head)
			if err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			} else if err := processManuscript(ctx, data, filepath.Base(head), store, format, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as DOCX manuscript (%s)", head)

	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding manuscripts and processes them.
func processDir(ctx context.Context, dir string, store Store, format common.ExportFmt, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		arch, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if arch {
			if err := processArchive(ctx, path, filepath.Dir(strings.TrimPrefix(path, dir)), store, format, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		book, err := isManuscriptFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !book {
			log.Debug("Skipping file, not recognized as manuscript or archive", zap.String("file", path))
			return nil
		}

		count++

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			return nil
		}

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processManuscript(ctx, data, src, store, format, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processArchive walks all files inside archive, finds manuscripts and
// processes them.
func processArchive(ctx context.Context, path, pathOut string, store Store, format common.ExportFmt, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	err = archive.Walk(path, manuscriptExtensions, func(arch string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		book, err := isManuscriptInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", arch), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if !book {
			log.Debug("Skipping file, not recognized as manuscript", zap.String("archive", arch), zap.String("file", f.FileHeader.Name))
			return nil
		}

		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arch), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(io.LimitReader(r, maxManuscriptSize+1))
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arch), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if len(data) > maxManuscriptSize {
			log.Warn("Skipping file in archive, too large", zap.String("archive", arch), zap.String("file", f.FileHeader.Name))
			return nil
		}

		if err := processManuscript(ctx, data, filepath.Join(pathOut, f.FileHeader.Name), store, format, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arch), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

// processManuscript processes single DOCX manuscript. "src" is part of the
// source path (always including file name) relative to the original path.
// When actual file was specified it will be just base file name without a
// path. When looking inside archive or directory it will be relative path
// inside archive or directory (including base file name). Finished
// artifacts are handed to the store.
func processManuscript(ctx context.Context, data []byte, src string, store Store, format common.ExportFmt, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	exportID := uuid.New().String()
	var res ExportResult

	log.Info("Export starting", zap.String("from", src), zap.String("id", exportID))
	defer func(start time.Time) {
		// NOTE: if multiple manuscripts are being processed we do not want
		// a single bad document to stop the batch.
		if r := recover(); r != nil {
			log.Error("Export ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("id", exportID), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("export panic: %v", r)
		} else {
			log.Info("Export completed", zap.Duration("elapsed", time.Since(start)),
				zap.String("idml", res.IDMLPath), zap.String("pdf", res.PDFPath), zap.String("id", exportID))
		}
	}(time.Now())

	doc, err := manuscript.Parse(data, manuscript.Options{
		Images: docx.ConvertOptions{
			OptimizeImages: env.Cfg.Document.Images.Optimize,
			JPEGQuality:    env.Cfg.Document.Images.JPEGQuality,
			MaxImageWidth:  env.Cfg.Document.Images.MaxWidth,
		},
	}, log)
	if err != nil {
		return fmt.Errorf("unable to parse manuscript (%s): %w", src, err)
	}

	for _, msg := range doc.Messages {
		log.Warn("Manuscript normalization", zap.String("file", src), zap.String("message", msg))
	}
	log.Debug("Manuscript parsed", zap.String("title", doc.Title),
		zap.Int("chapters", len(doc.Chapters)), zap.Int("words", doc.TotalWordCount), zap.Int("pages", doc.EstimatedPageCount))

	for _, m := range doc.Mappings {
		if m.SourceStyleName != m.TargetStyleName {
			log.Debug("Style mapped", zap.String("source", m.SourceStyleName), zap.String("target", m.TargetStyleName))
		}
	}
	if env.Rpt != nil {
		if data, err := yaml.Marshal(doc.Mappings); err == nil {
			env.Rpt.StoreData(fmt.Sprintf("styles-%s.yaml", exportID), data)
		} else {
			log.Warn("Unable to serialize style mappings for report", zap.Error(err))
		}
	}

	baseKey := buildOutputKey(doc, src, format, exportID, env)

	res, err = generateExport(ctx, exportInput(env, doc), baseKey, format, exportID, store, log)
	if err != nil {
		return fmt.Errorf("unable to generate export: %w", err)
	}

	recordExport(env.Cat, res, src, format, doc.Title, log)

	// Store export results for debugging
	if env.Rpt != nil {
		if res.IDMLPath != "" {
			env.Rpt.Store(fmt.Sprintf("result-%s.idml", exportID), res.IDMLPath)
		}
		if res.PDFPath != "" {
			env.Rpt.Store(fmt.Sprintf("result-%s.html", exportID), res.PDFPath)
		}
	}

	return nil
}
