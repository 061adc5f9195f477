package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"mpress/common"
	"mpress/config"
	"mpress/manuscript"
	"mpress/state"
)

// buildOutputKey returns constructed storage key without artifact
// extension, different artifacts of the same export share the base. It uses
// either default naming scheme or user-defined template and takes into
// account whether to preserve source directory structure on the output. It
// cleans up path and if requested transliterates it
func buildOutputKey(doc *manuscript.Document, src string, format common.ExportFmt, exportID string, env *state.LocalEnv) string {
	outDir := determineOutputSubdir(src, env)
	defaultBase := buildDefaultBaseName(src, env)

	if env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultBase)
	}

	expandedName := expandOutputNameTemplate(doc, src, format, exportID, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultBase)
	}

	return assemblePathWithSubdirs(outDir, expandedName, env)
}

func determineOutputSubdir(src string, env *state.LocalEnv) string {
	if env.NoDirs {
		return ""
	}
	if dir := filepath.Dir(src); dir != "." {
		return dir
	}
	return ""
}

func buildDefaultBaseName(src string, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Document.FileNameTransliterate {
		baseName = slug.Make(baseName)
	}
	return config.CleanFileName(baseName)
}

// artifactExtension maps single artifact formats to their file extension.
// "both" never reaches here, callers expand it to concrete artifacts first.
func artifactExtension(format common.ExportFmt) string {
	switch format {
	case common.ExportFmtIdml:
		return ".idml"
	case common.ExportFmtPdf:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

func expandOutputNameTemplate(doc *manuscript.Document, src string, format common.ExportFmt, exportID string, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(doc, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate, format, src, exportID)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(expandedName)
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(pathSegments[len(pathSegments)-1], env)
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
		path = head
	}

	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
