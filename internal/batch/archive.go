package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"batchedit/pkg/zip"
)

// BuildArchive packages every successful result into one deflate-compressed
// zip. Entry names are deterministic and collision-safe: a 1-based zero-padded
// index over the successes followed by the sanitized original base name. An
// all-failure run yields a valid empty archive.
func BuildArchive(results []Result) ([]byte, error) {
	var entries []zip.Entry
	index := 0
	for _, res := range results {
		if !res.Success {
			continue
		}
		index++
		entries = append(entries, zip.Entry{
			Name: ArchiveEntryName(index, res.Filename),
			Data: res.EditedBytes,
		})
	}
	return zip.Archive(entries)
}

// ArchiveEntryName formats one archive entry name as NN_edited_<name>.png.
func ArchiveEntryName(index int, filename string) string {
	return fmt.Sprintf("%02d_edited_%s.png", index, sanitizeBaseName(filename))
}

// DownloadName is the suggested filename for an individually downloaded
// result.
func DownloadName(filename string) string {
	return "edited_" + sanitizeBaseName(filename) + ".png"
}

// sanitizeBaseName strips the extension and keeps only letters, digits,
// spaces, hyphens and underscores, guaranteeing a valid entry name.
func sanitizeBaseName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
