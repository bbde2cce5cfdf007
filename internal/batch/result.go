package batch

// FailureKind categorizes a per-item processing failure. Remote failures
// reuse the imagegen classification values verbatim.
type FailureKind string

const (
	FailureInvalidInput     FailureKind = "invalid_input"
	FailureEmptyInstruction FailureKind = "empty_instruction"
	FailurePreprocessing    FailureKind = "preprocessing_failed"
	FailureCancelled        FailureKind = "cancelled"
)

// Result is the tagged outcome for one session image after one batch run.
// The originating fingerprint is carried explicitly so results stay
// unambiguous even when two session images share a filename.
type Result struct {
	Fingerprint string
	Filename    string
	Success     bool

	// Success payload.
	EditedBytes       []byte
	EditedWidth       int
	EditedHeight      int
	OriginalSizeBytes int
	ResultSizeBytes   int

	// Failure payload.
	Kind    FailureKind
	Message string
}

// Summary aggregates one batch run. It is derived on demand from the result
// slice and never stored.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	SuccessRate float64
	OutputBytes int64
}

// Summarize computes the run summary for a result slice.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		if res.Success {
			s.Succeeded++
			s.OutputBytes += int64(res.ResultSizeBytes)
		} else {
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.Total)
	}
	return s
}

func failureResult(img *ValidatedImage, kind FailureKind, message string) Result {
	return Result{
		Fingerprint: img.Fingerprint,
		Filename:    img.Filename,
		Kind:        kind,
		Message:     message,
	}
}
