package batch

// RejectKind identifies why an uploaded candidate was refused before it
// entered the session. Rejections are always local and recoverable; they
// never abort a batch.
type RejectKind string

const (
	RejectFileTooLarge      RejectKind = "file_too_large"
	RejectUnsupportedFormat RejectKind = "unsupported_format"
	RejectEmptyFile         RejectKind = "empty_file"
	RejectCorruptImage      RejectKind = "corrupt_image"
	RejectImageTooLarge     RejectKind = "image_too_large"
	RejectImageTooSmall     RejectKind = "image_too_small"
)

// RejectionError carries the rejection category plus a user-facing message.
type RejectionError struct {
	Kind    RejectKind
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// ValidatedImage is the unit of truth for one accepted upload. Instances are
// only produced by Validate; the raw payload keeps its original encoding
// until normalization.
type ValidatedImage struct {
	Filename       string
	Fingerprint    string
	SizeBytes      int
	Width          int
	Height         int
	DeclaredFormat string
	ColorMode      string
	Bytes          []byte
}
