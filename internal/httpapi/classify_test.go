package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	msgs := Messages{InsufficientData: "Not enough history to generate insights", Failure: "Failed to fetch insights"}

	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"401 ignores body", http.StatusUnauthorized, `{"message":"token revoked"}`, KindAuthExpired, "Authentication expired"},
		{"422 uses body message", http.StatusUnprocessableEntity, `{"message": "not enough samples"}`, KindInsufficientData, "not enough samples"},
		{"422 without message uses resource text", http.StatusUnprocessableEntity, `{}`, KindInsufficientData, "Not enough history to generate insights"},
		{"422 with malformed body", http.StatusUnprocessableEntity, `<html>oops`, KindInsufficientData, "Not enough history to generate insights"},
		{"422 with non-string message", http.StatusUnprocessableEntity, `{"message": 42}`, KindInsufficientData, "Not enough history to generate insights"},
		{"429", http.StatusTooManyRequests, ``, KindRateLimited, rateLimitedMessage},
		{"500 includes status text", http.StatusInternalServerError, `{"message":"boom"}`, KindGeneric, "Failed to fetch insights: Internal Server Error"},
		{"404", http.StatusNotFound, ``, KindGeneric, "Failed to fetch insights: Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(RawResponse{StatusCode: tt.status, Body: []byte(tt.body)}, msgs)
			require.Equal(t, tt.kind, err.Kind)
			require.Equal(t, tt.message, err.Message)
			require.Equal(t, tt.status, err.Status)
		})
	}
}

func TestClassify_DefaultsWithoutMessages(t *testing.T) {
	err := Classify(RawResponse{StatusCode: http.StatusUnprocessableEntity}, Messages{})
	require.Equal(t, insufficientDataDefault, err.Message)

	err = Classify(RawResponse{StatusCode: 599, Status: "599 Network Connect Timeout"}, Messages{})
	require.Equal(t, KindGeneric, err.Kind)
	require.Equal(t, "Request failed: 599 Network Connect Timeout", err.Message)
}
