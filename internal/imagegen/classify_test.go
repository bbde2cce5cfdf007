package imagegen

import "testing"

func TestClassifyKinds(t *testing.T) {
	cases := []struct {
		message string
		want    ErrorKind
	}{
		{"Images field rejected by endpoint", KindIncompatibleFormat},
		{"invalid parameter: size", KindIncompatibleFormat},
		{"request Timeout after 60s", KindTimeout},
		{"daily quota exceeded", KindQuotaExceeded},
		{"429 rate limit reached", KindQuotaExceeded},
		{"401 Unauthorized", KindAuthenticationError},
		{"invalid api token", KindAuthenticationError},
		{"model is warming up, try later", KindModelUnavailable},
		{"connection reset by peer", KindUnknownRemoteError},
		{"", KindUnknownRemoteError},
	}
	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// A message matching several categories resolves to the highest
	// precedence one.
	if got := Classify("parameter timeout on model endpoint"); got != KindIncompatibleFormat {
		t.Fatalf("expected incompatible_format, got %s", got)
	}
	if got := Classify("timeout waiting for model"); got != KindTimeout {
		t.Fatalf("expected timeout, got %s", got)
	}
	if got := Classify("quota check for model failed"); got != KindQuotaExceeded {
		t.Fatalf("expected quota_exceeded, got %s", got)
	}
	if got := Classify("token rejected by model gateway"); got != KindAuthenticationError {
		t.Fatalf("expected authentication_error, got %s", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("RATE LIMIT"); got != KindQuotaExceeded {
		t.Fatalf("expected quota_exceeded, got %s", got)
	}
}
