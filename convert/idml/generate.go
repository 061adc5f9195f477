package idml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	fixzip "github.com/hidez8891/zip"
)

// Write streams the package to w in entry order. The first entry must be
// the stored mimetype; anything else means the file sequence was assembled
// by hand and the container would be invalid.
func Write(files []File, w io.Writer) error {
	if len(files) == 0 || files[0].Path != "mimetype" || !files[0].StoreUncompressed {
		return fmt.Errorf("package must start with an uncompressed mimetype entry")
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		method := zip.Deflate
		if f.StoreUncompressed {
			method = zip.Store
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   f.Path,
			Method: method,
		})
		if err != nil {
			return fmt.Errorf("unable to create archive entry %s: %w", f.Path, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("unable to write archive entry %s: %w", f.Path, err)
		}
	}
	return zw.Close()
}

// Bytes assembles the package zip in memory.
func Bytes(files []File) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(files, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fixup copies archive entries from one file to another while clearing the
// data descriptor flag on each, some strict consumers choke on descriptors.
func Fixup(from, to string) error {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
