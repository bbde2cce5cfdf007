package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"batchedit/internal/batch"
)

// maxUploadMemory bounds the in-memory portion of a multipart parse; larger
// parts spill to temp files.
const maxUploadMemory = 32 << 20

type imageInfo struct {
	Fingerprint string `json:"fingerprint"`
	Filename    string `json:"filename"`
	SizeBytes   int    `json:"size_bytes"`
	Dimensions  string `json:"dimensions"`
	Format      string `json:"format"`
	ColorMode   string `json:"color_mode"`
}

type rejectionInfo struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

type sessionState struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"total_bytes"`
}

type uploadResponse struct {
	Added      []imageInfo     `json:"added"`
	Rejected   []rejectionInfo `json:"rejected"`
	Duplicates int             `json:"duplicates"`
	Skipped    int             `json:"skipped"`
	Session    sessionState    `json:"session"`
}

func infoFor(img *batch.ValidatedImage) imageInfo {
	return imageInfo{
		Fingerprint: img.Fingerprint,
		Filename:    img.Filename,
		SizeBytes:   img.SizeBytes,
		Dimensions:  fmt.Sprintf("%dx%d", img.Width, img.Height),
		Format:      img.DeclaredFormat,
		ColorMode:   img.ColorMode,
	}
}

// SessionUpload validates multipart files and adds the accepted ones to the
// session. Rejections and capacity skips are reported per file; they never
// fail the request as a whole.
func (a *App) SessionUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "no files in \"images\" field")
		return
	}

	resp := uploadResponse{Added: []imageInfo{}, Rejected: []rejectionInfo{}}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, header := range files {
		data, err := readPart(header)
		if err != nil {
			resp.Rejected = append(resp.Rejected, rejectionInfo{
				Filename: header.Filename,
				Reason:   "read_failed",
				Message:  err.Error(),
			})
			continue
		}
		img, err := batch.Validate(header.Filename, data)
		if err != nil {
			var rej *batch.RejectionError
			if errors.As(err, &rej) {
				resp.Rejected = append(resp.Rejected, rejectionInfo{
					Filename: header.Filename,
					Reason:   string(rej.Kind),
					Message:  rej.Message,
				})
				continue
			}
			a.error(w, http.StatusInternalServerError, "internal", "validation failed")
			return
		}
		switch _, status := a.session.Add(img); status {
		case batch.AddInserted:
			resp.Added = append(resp.Added, infoFor(img))
		case batch.AddDuplicate:
			resp.Duplicates++
		case batch.AddSkippedFull:
			resp.Skipped++
		}
	}
	resp.Session = sessionState{Count: a.session.Len(), TotalBytes: a.session.TotalBytes()}
	a.Logger.Info().
		Int("added", len(resp.Added)).
		Int("rejected", len(resp.Rejected)).
		Int("duplicates", resp.Duplicates).
		Int("skipped", resp.Skipped).
		Msg("session upload")
	a.json(w, http.StatusOK, resp)
}

// SessionList returns the stored images in insertion order.
func (a *App) SessionList(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	items := a.session.Items()
	infos := make([]imageInfo, 0, len(items))
	for _, img := range items {
		infos = append(infos, infoFor(img))
	}
	a.json(w, http.StatusOK, map[string]any{
		"images":  infos,
		"session": sessionState{Count: a.session.Len(), TotalBytes: a.session.TotalBytes()},
	})
}

// SessionRemove deletes one image by fingerprint.
func (a *App) SessionRemove(w http.ResponseWriter, r *http.Request) {
	fingerprint := chi.URLParam(r, "fingerprint")
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.session.Remove(fingerprint) {
		a.error(w, http.StatusNotFound, "not_found", "no image with that fingerprint")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"removed": fingerprint,
		"session": sessionState{Count: a.session.Len(), TotalBytes: a.session.TotalBytes()},
	})
}

// SessionClear starts a fresh session: images and results are dropped
// together.
func (a *App) SessionClear(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Clear()
	a.results = nil
	a.runID = ""
	a.json(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, batch.MaxFileBytes+1))
}
