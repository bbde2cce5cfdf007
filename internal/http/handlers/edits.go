package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"batchedit/internal/batch"
	"batchedit/internal/imagegen"
)

type runRequest struct {
	Instruction string `json:"instruction"`
}

type resultInfo struct {
	Fingerprint       string `json:"fingerprint"`
	Filename          string `json:"filename"`
	Success           bool   `json:"success"`
	EditedWidth       int    `json:"edited_width,omitempty"`
	EditedHeight      int    `json:"edited_height,omitempty"`
	OriginalSizeBytes int    `json:"original_size_bytes,omitempty"`
	ResultSizeBytes   int    `json:"result_size_bytes,omitempty"`
	Kind              string `json:"kind,omitempty"`
	Message           string `json:"message,omitempty"`
}

type summaryInfo struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
	OutputBytes int64   `json:"output_bytes"`
}

type runResponse struct {
	RunID   string       `json:"run_id"`
	Summary summaryInfo  `json:"summary"`
	Results []resultInfo `json:"results"`
}

func resultInfos(results []batch.Result) []resultInfo {
	infos := make([]resultInfo, 0, len(results))
	for _, res := range results {
		info := resultInfo{
			Fingerprint: res.Fingerprint,
			Filename:    res.Filename,
			Success:     res.Success,
		}
		if res.Success {
			info.EditedWidth = res.EditedWidth
			info.EditedHeight = res.EditedHeight
			info.OriginalSizeBytes = res.OriginalSizeBytes
			info.ResultSizeBytes = res.ResultSizeBytes
		} else {
			info.Kind = string(res.Kind)
			info.Message = res.Message
		}
		infos = append(infos, info)
	}
	return infos
}

func summaryInfoFor(s batch.Summary) summaryInfo {
	return summaryInfo{
		Total:       s.Total,
		Succeeded:   s.Succeeded,
		Failed:      s.Failed,
		SuccessRate: s.SuccessRate,
		OutputBytes: s.OutputBytes,
	}
}

// EditsRun executes one batch run over the current session. Per-item failures
// are part of the result payload, never an HTTP error; the previous run's
// results are replaced wholly.
func (a *App) EditsRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	results, err := a.Runner.Run(r.Context(), a.session, req.Instruction)
	if err != nil {
		if errors.Is(err, imagegen.ErrMissingAPIKey) {
			a.error(w, http.StatusServiceUnavailable, "missing_credential", "remote edit credential is not configured")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "batch run failed to start")
		return
	}
	a.results = results
	a.runID = uuid.NewString()

	summary := batch.Summarize(results)
	a.Logger.Info().
		Str("run_id", a.runID).
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(start)).
		Msg("batch run finished")
	a.json(w, http.StatusOK, runResponse{
		RunID:   a.runID,
		Summary: summaryInfoFor(summary),
		Results: resultInfos(results),
	})
}

// ResultsList reports the latest run without re-running anything.
func (a *App) ResultsList(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.json(w, http.StatusOK, runResponse{
		RunID:   a.runID,
		Summary: summaryInfoFor(batch.Summarize(a.results)),
		Results: resultInfos(a.results),
	})
}

// ResultsClear drops the latest run's results while keeping the session.
func (a *App) ResultsClear(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = nil
	a.runID = ""
	a.json(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ResultDownload streams one successfully edited image.
func (a *App) ResultDownload(w http.ResponseWriter, r *http.Request) {
	fingerprint := chi.URLParam(r, "fingerprint")
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, res := range a.results {
		if res.Fingerprint != fingerprint {
			continue
		}
		if !res.Success {
			a.error(w, http.StatusConflict, "not_successful", res.Message)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batch.DownloadName(res.Filename)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.EditedBytes)
		return
	}
	a.error(w, http.StatusNotFound, "not_found", "no result for that fingerprint")
}

// ArchiveDownload streams a zip of every successful result. All-failure runs
// produce a valid empty archive.
func (a *App) ArchiveDownload(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	archive, err := batch.BuildArchive(a.results)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("batch_edited_%d.zip", time.Now().Unix())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
