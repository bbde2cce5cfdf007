package imagegen

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingEditor struct {
	calls    int
	failures int
}

func (e *countingEditor) HasCredentials() bool { return true }

func (e *countingEditor) EditOnce(ctx context.Context, data []byte, instruction string) (*EditedImage, error) {
	e.calls++
	if e.calls <= e.failures {
		return nil, errors.New("transient failure")
	}
	return &EditedImage{Data: []byte("edited")}, nil
}

func TestEditWithRetryFirstAttemptSucceeds(t *testing.T) {
	editor := &countingEditor{}
	edited, err := EditWithRetry(context.Background(), editor, RetryPolicy{MaxAttempts: 2}, []byte("img"), "instr")
	if err != nil {
		t.Fatalf("EditWithRetry error: %v", err)
	}
	if string(edited.Data) != "edited" {
		t.Fatalf("unexpected result: %q", edited.Data)
	}
	if editor.calls != 1 {
		t.Fatalf("expected 1 call, got %d", editor.calls)
	}
}

func TestEditWithRetryRecoversAfterFailure(t *testing.T) {
	editor := &countingEditor{failures: 1}
	_, err := EditWithRetry(context.Background(), editor, RetryPolicy{MaxAttempts: 2}, []byte("img"), "instr")
	if err != nil {
		t.Fatalf("EditWithRetry error: %v", err)
	}
	if editor.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", editor.calls)
	}
}

func TestEditWithRetryExhaustsBudget(t *testing.T) {
	editor := &countingEditor{failures: 10}
	_, err := EditWithRetry(context.Background(), editor, RetryPolicy{MaxAttempts: 2}, []byte("img"), "instr")
	if err == nil {
		t.Fatal("expected final error")
	}
	if editor.calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", editor.calls)
	}
}

func TestEditWithRetryDefaultsZeroPolicy(t *testing.T) {
	editor := &countingEditor{failures: 10}
	_, err := EditWithRetry(context.Background(), editor, RetryPolicy{}, []byte("img"), "instr")
	if err == nil {
		t.Fatal("expected final error")
	}
	if editor.calls != 2 {
		t.Fatalf("zero policy must normalize to 2 attempts, got %d", editor.calls)
	}
}

func TestEditWithRetryStopsWhenContextCancelled(t *testing.T) {
	editor := &countingEditor{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := EditWithRetry(ctx, editor, RetryPolicy{MaxAttempts: 2, Delay: time.Minute}, []byte("img"), "instr")
	if err == nil {
		t.Fatal("expected error")
	}
	if editor.calls != 1 {
		t.Fatalf("cancelled context must stop retrying, got %d calls", editor.calls)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled context must not wait out the delay")
	}
}
