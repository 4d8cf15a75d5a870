package catalog

import (
	"testing"

	"showroom-scene-server/modules/common/model"
)

func TestResolveStylePreset(t *testing.T) {
	got, err := ResolveStyle("Japandi", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Japandi" {
		t.Errorf("got %q, want %q", got, "Japandi")
	}
}

func TestResolveStyleCustom(t *testing.T) {
	got, err := ResolveStyle(CustomOption, "  Wabi-Sabi Retreat  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Wabi-Sabi Retreat" {
		t.Errorf("got %q, want trimmed custom style", got)
	}
}

func TestResolveStyleEmptyCustom(t *testing.T) {
	for _, custom := range []string{"", "   "} {
		_, err := ResolveStyle(CustomOption, custom)
		if err == nil {
			t.Fatalf("expected error for custom style %q", custom)
		}
		want := "Please enter a custom style or select a predefined one."
		if err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}
	}
}

func TestDefaultStyleIsFirstPreset(t *testing.T) {
	if DefaultStyle() != RoomStyles[0] {
		t.Errorf("default style %q should be the first preset", DefaultStyle())
	}
}

func TestNormalizeChoice(t *testing.T) {
	tests := []struct {
		name string
		in   model.Choice
		want model.Choice
	}{
		{
			name: "known preset kept",
			in:   model.Choice{Kind: model.ChoicePreset, Value: "Ceramic"},
			want: model.Choice{Kind: model.ChoicePreset, Value: "Ceramic"},
		},
		{
			name: "unknown preset demoted to custom",
			in:   model.Choice{Kind: model.ChoicePreset, Value: "Unobtainium"},
			want: model.Choice{Kind: model.ChoiceCustom, Value: "Unobtainium"},
		},
		{
			name: "empty preset becomes unspecified",
			in:   model.Choice{Kind: model.ChoicePreset, Value: ""},
			want: model.Unspecified(),
		},
		{
			name: "not specified becomes unspecified",
			in:   model.Choice{Kind: model.ChoicePreset, Value: "Not Specified"},
			want: model.Unspecified(),
		},
		{
			name: "custom trimmed",
			in:   model.Choice{Kind: model.ChoiceCustom, Value: "  Hammered Copper "},
			want: model.Choice{Kind: model.ChoiceCustom, Value: "Hammered Copper"},
		},
		{
			name: "blank custom stays pending custom",
			in:   model.Choice{Kind: model.ChoiceCustom, Value: "   "},
			want: model.Choice{Kind: model.ChoiceCustom, Value: ""},
		},
		{
			name: "unknown kind becomes unspecified",
			in:   model.Choice{Kind: "weird", Value: "x"},
			want: model.Unspecified(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMaterial(tt.in)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPendingCustomNotResolved(t *testing.T) {
	c := NormalizeFinish(model.Choice{Kind: model.ChoiceCustom, Value: "  "})
	if _, ok := c.Resolved(); ok {
		t.Error("pending custom choice should not resolve to a value")
	}
}
