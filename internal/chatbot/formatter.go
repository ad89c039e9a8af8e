package chatbot

import (
	"strings"
)

// Reply is the only shape the chat endpoint answers with.
type Reply struct {
	Reply string `json:"reply"`
}

// FailureClass groups model errors into the cases a user is told about.
type FailureClass string

const (
	FailureMissingCredentials FailureClass = "missing-credentials"
	FailureQuotaExceeded      FailureClass = "quota-exceeded"
	FailureUnavailable        FailureClass = "generic-unavailable"
)

var fallbackMessages = map[FailureClass]string{
	FailureMissingCredentials: "The AI assistant is not configured yet. Please ask your administrator to set it up.",
	FailureQuotaExceeded:      "The AI assistant has reached its usage limit for now. Please try again later.",
	FailureUnavailable:        "The AI assistant is temporarily unavailable. Please try again in a moment.",
}

var (
	credentialMarkers = []string{"api_key", "api key", "apikey", "credential", "permission_denied", "unauthenticated"}
	quotaMarkers      = []string{"quota", "resource_exhausted", ": 429 ", "status 429", "rate limit", "too many requests"}
)

// ClassifyFailure inspects the error text. Anything unrecognised, including a
// deadline expiry, is FailureUnavailable.
func ClassifyFailure(err error) FailureClass {
	text := strings.ToLower(err.Error())
	for _, m := range credentialMarkers {
		if strings.Contains(text, m) {
			return FailureMissingCredentials
		}
	}
	for _, m := range quotaMarkers {
		if strings.Contains(text, m) {
			return FailureQuotaExceeded
		}
	}
	return FailureUnavailable
}

func FallbackMessage(class FailureClass) string {
	if msg, ok := fallbackMessages[class]; ok {
		return msg
	}
	return fallbackMessages[FailureUnavailable]
}

// FormatTemplate wraps a deterministic report.
func FormatTemplate(text string) Reply {
	return Reply{Reply: text}
}

// FormatModel wraps model output, substituting a fixed message when the call failed
// or returned nothing. Provider error text is never included.
func FormatModel(text string, err error) Reply {
	if err != nil {
		return Reply{Reply: FallbackMessage(ClassifyFailure(err))}
	}
	if text = strings.TrimSpace(text); text == "" {
		return Reply{Reply: FallbackMessage(FailureUnavailable)}
	}
	return Reply{Reply: text}
}
