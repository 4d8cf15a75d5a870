package gemini

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyQuota(t *testing.T) {
	raws := []error{
		errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"),
		errors.New("googleapi: Error 429: rate limit exceeded"),
		errors.New("quota exceeded for this project"),
	}

	for _, raw := range raws {
		apiErr := Classify(raw, "master scene generation")
		if apiErr.Kind != KindQuota {
			t.Errorf("Classify(%q) kind = %q, want quota", raw, apiErr.Kind)
		}
		want := "You have exceeded your API request quota. Please check your plan and billing details, or try again later."
		if apiErr.Error() != want {
			t.Errorf("got message %q, want %q", apiErr.Error(), want)
		}
	}
}

func TestClassifyAuth(t *testing.T) {
	apiErr := Classify(errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."), "product identification")
	if apiErr.Kind != KindAuth {
		t.Fatalf("kind = %q, want auth", apiErr.Kind)
	}
	want := "Your API key is not valid. Please ensure it is configured correctly."
	if apiErr.Error() != want {
		t.Errorf("got message %q, want %q", apiErr.Error(), want)
	}
}

func TestClassifyGeneric(t *testing.T) {
	apiErr := Classify(errors.New("connection reset by peer"), "master scene generation")
	if apiErr.Kind != KindGeneric {
		t.Fatalf("kind = %q, want generic", apiErr.Kind)
	}
	want := "Failed to complete master scene generation. The API returned an error."
	if apiErr.Error() != want {
		t.Errorf("got message %q, want %q", apiErr.Error(), want)
	}
}

func TestClassifyGenericVariationOp(t *testing.T) {
	op := fmt.Sprintf("scene variation generation for %q", "Material & Texture Close-Up")
	apiErr := Classify(errors.New("boom"), op)
	want := `Failed to complete scene variation generation for "Material & Texture Close-Up". The API returned an error.`
	if apiErr.Error() != want {
		t.Errorf("got message %q, want %q", apiErr.Error(), want)
	}
}

func TestClassifyUnwrap(t *testing.T) {
	raw := errors.New("original failure")
	apiErr := Classify(raw, "x")
	if !errors.Is(apiErr, raw) {
		t.Error("classified error should wrap the original error")
	}
}

func TestIsRateLimitError(t *testing.T) {
	if IsRateLimitError(nil) {
		t.Error("nil error is not a rate limit error")
	}
	if !IsRateLimitError(errors.New("HTTP 429 Too Many Requests")) {
		t.Error("429 should be a rate limit error")
	}
	if IsRateLimitError(errors.New("connection refused")) {
		t.Error("unrelated error should not be a rate limit error")
	}
}
