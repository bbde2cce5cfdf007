package batch

import (
	"context"
	"strings"

	"batchedit/internal/imagegen"
	"batchedit/internal/infra"
)

// ProgressFunc observes batch progress after each item completes.
type ProgressFunc func(completed, total int)

// Runner drives session images through normalization and the remote edit
// call, strictly one at a time. One remote call finishes, success or
// exhausted retries, before the next begins; the remote service imposes its
// own rate limits and sequential processing keeps behavior predictable.
type Runner struct {
	editor   imagegen.Editor
	retry    imagegen.RetryPolicy
	logger   infra.Logger
	progress ProgressFunc
}

// NewRunner wires a runner with its remote editor and retry policy.
func NewRunner(editor imagegen.Editor, retry imagegen.RetryPolicy, logger infra.Logger) *Runner {
	return &Runner{editor: editor, retry: retry, logger: logger}
}

// OnProgress registers a callback invoked after every completed item.
func (r *Runner) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

// Run processes every session image against one instruction and returns
// exactly one Result per image, in session order. Per-item failures are
// captured in their Result; no error crosses this boundary except the
// missing-credential refusal, which is checked before any call is attempted.
// Cancellation is observed between items only, never mid-call: once the
// context is done, each remaining image yields a cancelled Result so the
// one-result-per-item invariant still holds.
func (r *Runner) Run(ctx context.Context, session *Session, instruction string) ([]Result, error) {
	if r.editor == nil || !r.editor.HasCredentials() {
		return nil, imagegen.ErrMissingAPIKey
	}
	instruction = strings.TrimSpace(instruction)
	items := session.Items()
	results := make([]Result, 0, len(items))
	cancelled := false
	for i, img := range items {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
		}
		if cancelled {
			results = append(results, failureResult(img, FailureCancelled, ctx.Err().Error()))
		} else {
			results = append(results, r.processOne(ctx, img, instruction))
		}
		if r.progress != nil {
			r.progress(i+1, len(items))
		}
	}
	return results, nil
}

func (r *Runner) processOne(ctx context.Context, img *ValidatedImage, instruction string) Result {
	if len(img.Bytes) == 0 {
		return failureResult(img, FailureInvalidInput, "image payload is empty")
	}
	if instruction == "" {
		return failureResult(img, FailureEmptyInstruction, "edit instruction is empty")
	}
	normalized, err := Normalize(img)
	if err != nil {
		r.logger.Warn().Str("file", img.Filename).Err(err).Msg("batch: preprocessing failed")
		return failureResult(img, FailurePreprocessing, "image preprocessing failed: "+err.Error())
	}
	edited, err := imagegen.EditWithRetry(ctx, r.editor, r.retry, normalized, instruction)
	if err != nil {
		kind := imagegen.Classify(err.Error())
		r.logger.Warn().
			Str("file", img.Filename).
			Str("kind", string(kind)).
			Err(err).
			Msg("batch: remote edit failed")
		return failureResult(img, FailureKind(kind), err.Error())
	}
	r.logger.Debug().
		Str("file", img.Filename).
		Int("bytes", len(edited.Data)).
		Msg("batch: item edited")
	return Result{
		Fingerprint:       img.Fingerprint,
		Filename:          img.Filename,
		Success:           true,
		EditedBytes:       edited.Data,
		EditedWidth:       edited.Width,
		EditedHeight:      edited.Height,
		OriginalSizeBytes: img.SizeBytes,
		ResultSizeBytes:   len(edited.Data),
	}
}
