package batch

// MaxSessionImages bounds the session cardinality. Excess candidates are
// dropped at insertion time rather than failing the whole upload.
const MaxSessionImages = 15

// AddStatus reports what a Session.Add call actually did.
type AddStatus int

const (
	// AddInserted means the image is newly stored in the session.
	AddInserted AddStatus = iota
	// AddDuplicate means an image with the same fingerprint was already
	// present; the call was a no-op.
	AddDuplicate
	// AddSkippedFull means the session is at capacity and the candidate
	// was dropped.
	AddSkippedFull
)

// Session holds the validated images for one interaction context, keyed by
// fingerprint. Insertion order is preserved for display and for deterministic
// batch processing. A Session is owned exclusively by one caller and performs
// no locking of its own.
type Session struct {
	images map[string]*ValidatedImage
	order  []string
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{images: make(map[string]*ValidatedImage)}
}

// Add stores a validated image under its fingerprint. Re-adding the same
// fingerprint is a no-op, and candidates beyond MaxSessionImages are dropped.
func (s *Session) Add(img *ValidatedImage) (string, AddStatus) {
	if _, ok := s.images[img.Fingerprint]; ok {
		return img.Fingerprint, AddDuplicate
	}
	if len(s.order) >= MaxSessionImages {
		return "", AddSkippedFull
	}
	s.images[img.Fingerprint] = img
	s.order = append(s.order, img.Fingerprint)
	return img.Fingerprint, AddInserted
}

// Remove deletes the image with the given fingerprint and reports whether it
// was present.
func (s *Session) Remove(fingerprint string) bool {
	if _, ok := s.images[fingerprint]; !ok {
		return false
	}
	delete(s.images, fingerprint)
	for i, fp := range s.order {
		if fp == fingerprint {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every image from the session.
func (s *Session) Clear() {
	s.images = make(map[string]*ValidatedImage)
	s.order = nil
}

// Replace atomically swaps the session contents for the given images,
// deduplicating by fingerprint and truncating at capacity.
func (s *Session) Replace(images []*ValidatedImage) {
	s.Clear()
	for _, img := range images {
		if _, status := s.Add(img); status == AddSkippedFull {
			break
		}
	}
}

// Get looks up an image by fingerprint.
func (s *Session) Get(fingerprint string) (*ValidatedImage, bool) {
	img, ok := s.images[fingerprint]
	return img, ok
}

// Len reports the number of stored images.
func (s *Session) Len() int {
	return len(s.order)
}

// Items returns the stored images in insertion order.
func (s *Session) Items() []*ValidatedImage {
	items := make([]*ValidatedImage, 0, len(s.order))
	for _, fp := range s.order {
		items = append(items, s.images[fp])
	}
	return items
}

// TotalBytes sums the raw payload sizes of every stored image.
func (s *Session) TotalBytes() int64 {
	var total int64
	for _, fp := range s.order {
		total += int64(s.images[fp].SizeBytes)
	}
	return total
}
