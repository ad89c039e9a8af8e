package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		err  error
		want FailureClass
	}{
		{ErrMissingCredentials, FailureMissingCredentials},
		{errors.New("gemini: 400 INVALID_ARGUMENT: API key not valid. Please pass a valid API key."), FailureMissingCredentials},
		{errors.New("gemini: 403 PERMISSION_DENIED: caller lacks permission"), FailureMissingCredentials},
		{errors.New("gemini: 429 RESOURCE_EXHAUSTED: Quota exceeded for metric"), FailureQuotaExceeded},
		{fmt.Errorf("gemini request: %w", context.DeadlineExceeded), FailureUnavailable},
		{errors.New("gemini: unexpected status 503"), FailureUnavailable},
		{errors.New("connection reset by peer"), FailureUnavailable},
	}
	for _, tt := range tests {
		if got := ClassifyFailure(tt.err); got != tt.want {
			t.Errorf("ClassifyFailure(%q) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestFormatModelNeverLeaksProviderText(t *testing.T) {
	errs := []error{
		errors.New("GEMINI_API_KEY not configured"),
		errors.New("invalid API_KEY supplied: AIzaSyD-secret"),
		errors.New("upstream said: API_KEY_INVALID"),
	}
	for _, err := range errs {
		reply := FormatModel("", err)
		if strings.Contains(reply.Reply, "API_KEY") || strings.Contains(reply.Reply, "AIza") {
			t.Errorf("reply leaks provider text: %q", reply.Reply)
		}
		if reply.Reply != FallbackMessage(FailureMissingCredentials) {
			t.Errorf("reply = %q, want credentials fallback", reply.Reply)
		}
	}
}

func TestFormatModel(t *testing.T) {
	if got := FormatModel("  Your mail is in transit.\n", nil); got.Reply != "Your mail is in transit." {
		t.Errorf("success reply = %q", got.Reply)
	}
	if got := FormatModel("   ", nil); got.Reply != FallbackMessage(FailureUnavailable) {
		t.Errorf("empty reply = %q", got.Reply)
	}
	if got := FormatModel("", errors.New("quota exceeded")); got.Reply != FallbackMessage(FailureQuotaExceeded) {
		t.Errorf("quota reply = %q", got.Reply)
	}
	if got := FormatTemplate("No departments found."); got.Reply != "No departments found." {
		t.Errorf("template reply = %q", got.Reply)
	}
}
