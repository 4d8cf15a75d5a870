package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/genai"

	"showroom-scene-server/modules/common/config"
	"showroom-scene-server/modules/common/model"
)

func testService() *Service {
	return &Service{
		cfg: &config.Config{
			GeminiAPIKey:  "test-key",
			GeminiAPIKeys: []string{"test-key"},
			TextModel:     "gemini-2.5-flash",
			ImageModel:    "gemini-2.5-flash-image-preview",
		},
	}
}

func imageResponse(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
					},
				},
			},
		},
	}
}

func textOnlyResponse() *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: "I cannot generate that image."}},
				},
			},
		},
	}
}

func testProducts() []model.ProductAssets {
	return []model.ProductAssets{
		{
			Product: model.Product{Name: "Tub", Type: "Freestanding Tub"},
			Shots:   []model.SeedImage{{Base64: "aW1n", MimeType: "image/png"}},
		},
	}
}

func TestGenerateMasterSceneSuccess(t *testing.T) {
	s := testService()
	s.generateImage = func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		if len(contents) != 1 || len(contents[0].Parts) == 0 {
			t.Fatalf("unexpected contents shape")
		}
		if contents[0].Parts[0].Text == "" {
			t.Error("first part should be the prompt text")
		}
		if genCfg == nil || genCfg.ImageConfig == nil || genCfg.ImageConfig.AspectRatio != "16:9" {
			t.Error("image generation must request a 16:9 aspect ratio")
		}
		return imageResponse([]byte("img"), "image/png"), nil
	}

	src, err := s.GenerateMasterScene(context.Background(), nil, testProducts(), "Japandi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img"))
	if src != want {
		t.Errorf("got %q, want %q", src, want)
	}
}

func TestGenerateMasterSceneNoImagePart(t *testing.T) {
	s := testService()
	s.generateImage = func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return textOnlyResponse(), nil
	}

	_, err := s.GenerateMasterScene(context.Background(), nil, testProducts(), "Japandi")
	if err == nil {
		t.Fatal("expected error for image-less response")
	}
	want := "Failed to complete master scene generation. The API returned an error."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestGenerateMasterSceneQuotaError(t *testing.T) {
	s := testService()
	s.generateImage = func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")
	}

	_, err := s.GenerateMasterScene(context.Background(), nil, testProducts(), "Japandi")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "You have exceeded your API request quota. Please check your plan and billing details, or try again later."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestGenerateVariationsSettleAll(t *testing.T) {
	master := model.SeedImage{Base64: "bWFzdGVy", MimeType: "image/png"}
	angles := []model.CameraAngle{
		{Title: "Angle A", Prompt: "a"},
		{Title: "Angle B", Prompt: "b"},
		{Title: "Angle C", Prompt: "c"},
		{Title: "Angle D", Prompt: "d"},
	}

	s := testService()
	s.generateImage = func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		// Angle C만 실패시킨다
		if strings.Contains(contents[0].Parts[0].Text, `"Angle C"`) {
			return nil, errors.New("boom")
		}
		return imageResponse([]byte("ok"), "image/png"), nil
	}

	results := s.GenerateVariations(context.Background(), master, angles, "Tub")

	if len(results) != len(angles) {
		t.Fatalf("got %d results, want %d", len(results), len(angles))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if r.Title != angles[i].Title {
			t.Errorf("result %d has title %q, want %q", i, r.Title, angles[i].Title)
		}
	}
	for i, r := range results {
		if i == 2 {
			if r.Src != nil {
				t.Error("failed angle should have nil Src")
			}
			continue
		}
		if r.Src == nil {
			t.Errorf("angle %d should have succeeded", i)
		}
	}
}

func TestGenerateVariationsAllFail(t *testing.T) {
	master := model.SeedImage{Base64: "bWFzdGVy", MimeType: "image/png"}
	angles := []model.CameraAngle{{Title: "A", Prompt: "a"}, {Title: "B", Prompt: "b"}}

	s := testService()
	s.generateImage = func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("boom")
	}

	results := s.GenerateVariations(context.Background(), master, angles, "Tub")
	if len(results) != 2 {
		t.Fatalf("batch must settle even when every angle fails, got %d results", len(results))
	}
	for i, r := range results {
		if r.Src != nil {
			t.Errorf("result %d should have nil Src", i)
		}
		if r.Title != angles[i].Title {
			t.Errorf("result %d lost its title", i)
		}
	}
}

func TestIdentifyProducts(t *testing.T) {
	s := testService()
	s.identifyRaw = func(ctx context.Context, img model.SeedImage) (string, error) {
		return `[
			{"id":"whatever","name":" Bathtub ","type":" Built-in Tub "},
			{"id":"","name":"Faucet","type":"Wall-mounted Faucet"}
		]`, nil
	}

	products, err := s.IdentifyProducts(context.Background(), model.SeedImage{Base64: "aW1n", MimeType: "image/jpeg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	for i, p := range products {
		wantID := fmt.Sprintf("product-%d", i+1)
		if p.ID != wantID {
			t.Errorf("product %d id = %q, want sequential %q", i, p.ID, wantID)
		}
		if p.Material.Kind != model.ChoiceUnspecified || p.Finish.Kind != model.ChoiceUnspecified {
			t.Errorf("product %d should start with unspecified material/finish", i)
		}
	}
	if products[0].Name != "Bathtub" || products[0].Type != "Built-in Tub" {
		t.Errorf("fields should be trimmed: %+v", products[0])
	}
}

func TestIdentifyProductsBadPayload(t *testing.T) {
	s := testService()
	s.identifyRaw = func(ctx context.Context, img model.SeedImage) (string, error) {
		return "I found a bathtub and a sink.", nil
	}

	_, err := s.IdentifyProducts(context.Background(), model.SeedImage{Base64: "aW1n", MimeType: "image/png"})
	if err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
	want := "Failed to complete product identification. The API returned an error."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestIdentifyProductsAuthError(t *testing.T) {
	s := testService()
	s.identifyRaw = func(ctx context.Context, img model.SeedImage) (string, error) {
		return "", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key.")
	}

	_, err := s.IdentifyProducts(context.Background(), model.SeedImage{Base64: "aW1n", MimeType: "image/png"})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "Your API key is not valid. Please ensure it is configured correctly."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
