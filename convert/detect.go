package convert

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// maxManuscriptSize protects against pathological inputs, DOCX manuscripts
// are never anywhere near this large.
const maxManuscriptSize = 50 << 20

var manuscriptExtensions = []string{".docx", ".doc"}

// isArchiveFile reports whether path looks like a zip container we should
// descend into. DOCX files are themselves zips, so extension check comes
// first.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		if err == zip.ErrFormat {
			return false, nil
		}
		return false, err
	}
	defer r.Close()
	return true, nil
}

// isManuscriptFile reports whether path looks like a DOCX manuscript: known
// extension, zip magic and sane size.
func isManuscriptFile(path string) (bool, error) {
	if !hasManuscriptExtension(path) {
		return false, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if fi.Size() > maxManuscriptSize {
		return false, fmt.Errorf("manuscript is too large (%d bytes): %s", fi.Size(), path)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return filetype.IsType(head[:n], matchers.TypeZip), nil
}

// isManuscriptInArchive applies the same checks to an entry inside a zip
// archive without reading its content.
func isManuscriptInArchive(f *zip.File) (bool, error) {
	if !hasManuscriptExtension(f.Name) {
		return false, nil
	}
	if f.UncompressedSize64 > maxManuscriptSize {
		return false, fmt.Errorf("manuscript is too large (%d bytes): %s", f.UncompressedSize64, f.Name)
	}
	return true, nil
}

func hasManuscriptExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range manuscriptExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
