package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	oldgenai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"showroom-scene-server/modules/common/gemini"
	"showroom-scene-server/modules/common/model"
	"showroom-scene-server/modules/common/utils"
	"showroom-scene-server/modules/prompt"
)

// identifiedProduct - 식별 응답 JSON 항목
type identifiedProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// IdentifyProducts - 룸 씬에서 주요 제품 식별
// 응답의 id는 신뢰하지 않고 항상 product-1..N 순번을 재부여한다
func (s *Service) IdentifyProducts(ctx context.Context, scene model.SeedImage) ([]model.Product, error) {
	const op = "product identification"

	log.Printf("🔍 [Gateway] Identifying products in room scene (%s)", scene.MimeType)

	raw, err := s.identifyRaw(ctx, scene)
	if err != nil {
		log.Printf("❌ [Gateway] Product identification failed: %v", err)
		return nil, gemini.Classify(err, op)
	}

	var decoded []identifiedProduct
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Printf("❌ [Gateway] Unexpected identification payload: %v", err)
		return nil, gemini.Classify(fmt.Errorf("unexpected identification payload: %w", err), op)
	}

	products := make([]model.Product, 0, len(decoded))
	for i, d := range decoded {
		products = append(products, model.Product{
			ID:       fmt.Sprintf("product-%d", i+1),
			Name:     strings.TrimSpace(d.Name),
			Type:     strings.TrimSpace(d.Type),
			Material: model.Unspecified(),
			Finish:   model.Unspecified(),
		})
	}

	log.Printf("✅ [Gateway] Identified %d products", len(products))
	return products, nil
}

// identifyWithTextModel - structured JSON 응답 스키마로 텍스트 모델 호출
func (s *Service) identifyWithTextModel(ctx context.Context, img model.SeedImage) (string, error) {
	client, err := oldgenai.NewClient(ctx, option.WithAPIKey(s.cfg.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(s.cfg.TextModel)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = &oldgenai.Schema{
		Type: oldgenai.TypeArray,
		Items: &oldgenai.Schema{
			Type: oldgenai.TypeObject,
			Properties: map[string]*oldgenai.Schema{
				"id":   {Type: oldgenai.TypeString, Description: "A unique identifier for the product, e.g., 'product-1'."},
				"name": {Type: oldgenai.TypeString, Description: "A short, simple name for the product, e.g., 'Bathtub'."},
				"type": {Type: oldgenai.TypeString, Description: "A descriptive type including installation style, e.g., 'Freestanding Tub'."},
			},
			Required: []string{"id", "name", "type"},
		},
	}

	data, err := utils.DecodeSeedImage(img)
	if err != nil {
		return "", err
	}

	resp, err := m.GenerateContent(ctx,
		oldgenai.Text(prompt.Identify()),
		oldgenai.Blob{MIMEType: img.MimeType, Data: data},
	)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(oldgenai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}

	payload := strings.TrimSpace(sb.String())
	if payload == "" {
		return "", fmt.Errorf("empty identification response")
	}
	return payload, nil
}
