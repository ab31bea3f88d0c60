package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUpstreamErrorUnwrapping(t *testing.T) {
	base := &UpstreamError{Provider: "mobile_api", Status: 503, Body: "maintenance"}
	wrapped := fmt.Errorf("fetch failed: %w", base)

	got, ok := AsUpstreamError(wrapped)
	if !ok {
		t.Fatal("expected UpstreamError through wrapping")
	}
	if got.Status != 503 || got.Provider != "mobile_api" {
		t.Errorf("unexpected error contents: %+v", got)
	}
}

func TestAsUpstreamErrorMiss(t *testing.T) {
	if _, ok := AsUpstreamError(errors.New("plain")); ok {
		t.Error("expected no UpstreamError match")
	}
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("mobile tier: %w", ErrUnauthorized)
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("expected errors.Is to match through wrapping")
	}
}

func TestNegotiationFailedMessageCarriesSnippet(t *testing.T) {
	err := &NegotiationFailed{Snippet: "<html>queue"}
	if !strings.Contains(err.Error(), "<html>queue") {
		t.Errorf("expected snippet in message, got %q", err.Error())
	}
}
