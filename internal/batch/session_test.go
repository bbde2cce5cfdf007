package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	data := opaquePNG(t, 60, 60)
	first := Fingerprint(data, "a.png")
	second := Fingerprint(data, "a.png")

	assert.Equal(t, first, second)
	assert.Len(t, first, FingerprintLength)
}

func TestFingerprintSensitivity(t *testing.T) {
	data := opaquePNG(t, 60, 60)
	base := Fingerprint(data, "a.png")

	assert.NotEqual(t, base, Fingerprint(data, "b.png"), "different name must change the fingerprint")
	assert.NotEqual(t, base, Fingerprint(opaquePNG(t, 61, 60), "a.png"), "different content must change the fingerprint")
}

func TestSessionDuplicateIsNoOp(t *testing.T) {
	s := NewSession()
	data := opaquePNG(t, 60, 60)

	fp1, status := s.Add(mustValidate(t, "a.png", data))
	require.Equal(t, AddInserted, status)

	fp2, status := s.Add(mustValidate(t, "a.png", data))
	assert.Equal(t, AddDuplicate, status)
	assert.Equal(t, fp1, fp2)
	assert.Equal(t, 1, s.Len())
}

func TestSessionCapacityTruncates(t *testing.T) {
	s := NewSession()
	for i := 0; i < MaxSessionImages; i++ {
		_, status := s.Add(mustValidate(t, fmt.Sprintf("img-%d.png", i), opaquePNG(t, 60, 60)))
		require.Equal(t, AddInserted, status)
	}

	_, status := s.Add(mustValidate(t, "one-too-many.png", opaquePNG(t, 60, 60)))
	assert.Equal(t, AddSkippedFull, status)
	assert.Equal(t, MaxSessionImages, s.Len())
}

func TestSessionRemove(t *testing.T) {
	s := NewSession()
	fp, _ := s.Add(mustValidate(t, "a.png", opaquePNG(t, 60, 60)))

	assert.True(t, s.Remove(fp))
	assert.False(t, s.Remove(fp), "second removal must report absence")
	assert.Equal(t, 0, s.Len())
}

func TestSessionItemsKeepInsertionOrder(t *testing.T) {
	s := NewSession()
	names := []string{"c.png", "a.png", "b.png"}
	for i, name := range names {
		s.Add(mustValidate(t, name, opaquePNG(t, 60+i, 60)))
	}

	items := s.Items()
	require.Len(t, items, len(names))
	for i, img := range items {
		assert.Equal(t, names[i], img.Filename)
	}
}

func TestSessionReplaceAndClear(t *testing.T) {
	s := NewSession()
	s.Add(mustValidate(t, "old.png", opaquePNG(t, 60, 60)))

	replacement := []*ValidatedImage{
		mustValidate(t, "new1.png", opaquePNG(t, 61, 60)),
		mustValidate(t, "new2.png", opaquePNG(t, 62, 60)),
	}
	s.Replace(replacement)
	require.Equal(t, 2, s.Len())
	_, ok := s.Get(replacement[0].Fingerprint)
	assert.True(t, ok)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Items())
}

func TestSessionTotalBytes(t *testing.T) {
	s := NewSession()
	a := mustValidate(t, "a.png", opaquePNG(t, 60, 60))
	b := mustValidate(t, "b.png", opaquePNG(t, 80, 80))
	s.Add(a)
	s.Add(b)

	assert.Equal(t, int64(a.SizeBytes+b.SizeBytes), s.TotalBytes())
}
