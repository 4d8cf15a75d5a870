package utils

import (
	"testing"

	"showroom-scene-server/modules/common/model"
)

func TestParseDataURLRoundTrip(t *testing.T) {
	url := BuildDataURL("image/png", []byte("hello"))
	if url != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("unexpected data URL: %q", url)
	}

	parsed, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.SeedImage{Base64: "aGVsbG8=", MimeType: "image/png"}
	if parsed != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, want)
	}
}

func TestParseDataURLMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no data prefix", "image/png;base64,aGVsbG8="},
		{"missing mime type", "data:;base64,aGVsbG8="},
		{"missing base64 marker", "data:image/png,aGVsbG8="},
		{"empty payload", "data:image/png;base64,"},
		{"invalid base64", "data:image/png;base64,???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDataURL(tt.in); err == nil {
				t.Errorf("expected error for %q", tt.in)
			}
		})
	}
}

func TestBuildDataURL(t *testing.T) {
	url := BuildDataURL("image/jpeg", []byte("hi"))
	if url != "data:image/jpeg;base64,aGk=" {
		t.Errorf("unexpected data URL: %q", url)
	}
}

func TestDecodeSeedImage(t *testing.T) {
	data, err := DecodeSeedImage(model.SeedImage{Base64: "aGk=", MimeType: "image/png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("got %q, want %q", data, "hi")
	}

	if _, err := DecodeSeedImage(model.SeedImage{Base64: "???", MimeType: "image/png"}); err == nil {
		t.Error("expected error for invalid base64")
	}
}
