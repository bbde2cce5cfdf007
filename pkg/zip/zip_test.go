package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	entries := []Entry{
		{Name: "01_edited_sunset.png", Data: []byte("first")},
		{Name: "02_edited_harbor.png", Data: []byte("second")},
	}

	data, err := Archive(entries)
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("archive is not readable: %v", err)
	}
	if len(zr.File) != len(entries) {
		t.Fatalf("entry count mismatch: got %d want %d", len(zr.File), len(entries))
	}
	for i, f := range zr.File {
		if f.Name != entries[i].Name {
			t.Fatalf("entry %d name mismatch: got %q want %q", i, f.Name, entries[i].Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if !bytes.Equal(content, entries[i].Data) {
			t.Fatalf("entry %d content mismatch: got %q want %q", i, content, entries[i].Data)
		}
	}
}

func TestArchiveEmpty(t *testing.T) {
	data, err := Archive(nil)
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("empty archive is not readable: %v", err)
	}
	if len(zr.File) != 0 {
		t.Fatalf("expected no entries, got %d", len(zr.File))
	}
}
