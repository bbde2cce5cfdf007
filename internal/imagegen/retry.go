package imagegen

import (
	"context"
	"time"
)

// EditedImage is the normalized result of one successful remote edit call.
type EditedImage struct {
	URL    string
	Data   []byte
	Format string
	Width  int
	Height int
}

// Editor is the contract for a remote image edit backend.
type Editor interface {
	HasCredentials() bool
	EditOnce(ctx context.Context, data []byte, instruction string) (*EditedImage, error)
}

// RetryPolicy bounds how often a remote edit is attempted. The delay between
// attempts is fixed; tests inject a zero delay.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the service contract: two attempts total with a
// one second pause in between.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Delay: time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 2
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// EditWithRetry drives editor.EditOnce under the given policy. Retries may
// cause duplicate billable calls on the remote side; that tradeoff is
// accepted for resilience against transient failures. The last error is
// returned once the attempt budget is exhausted.
func EditWithRetry(ctx context.Context, editor Editor, policy RetryPolicy, data []byte, instruction string) (*EditedImage, error) {
	policy = policy.normalized()
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		edited, err := editor.EditOnce(ctx, data, instruction)
		if err == nil {
			return edited, nil
		}
		lastErr = err
		if attempt == policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, policy.Delay); err != nil {
			break
		}
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
