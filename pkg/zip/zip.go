package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry is one file to be stored in an archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive packs the entries into a deflate-compressed zip and returns the
// raw archive bytes. An empty entry slice produces a valid empty archive.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	return buf.Bytes(), nil
}
