package gateway

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	"showroom-scene-server/modules/common/config"
	"showroom-scene-server/modules/common/gemini"
	"showroom-scene-server/modules/common/model"
	"showroom-scene-server/modules/common/utils"
	"showroom-scene-server/modules/prompt"
)

// Service - Gemini 생성 게이트웨이
// 이미지 생성은 multi-key retry 헬퍼를 통하고, 제품 식별은 structured JSON 전용 경로를 탄다
type Service struct {
	cfg *config.Config

	// 호출 경로를 함수 필드로 분리 (테스트에서 교체)
	generateImage func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	identifyRaw   func(ctx context.Context, img model.SeedImage) (string, error)
}

// NewService - 게이트웨이 생성
func NewService() *Service {
	cfg := config.GetConfig()

	s := &Service{cfg: cfg}
	s.generateImage = func(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return gemini.GenerateContentWithRetry(ctx, cfg.GeminiAPIKeys, cfg.ImageModel, contents, genCfg)
	}
	s.identifyRaw = s.identifyWithTextModel
	return s
}

// imageGenConfig - 이미지 생성 공통 설정 (프롬프트의 16:9 규칙과 일치)
func imageGenConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: "16:9",
		},
	}
}

// buildContents - 프롬프트 텍스트 + 바이너리 파트를 요청 컨텐츠로 변환
// 텍스트가 먼저, 바이너리는 호출자가 정한 순서 그대로
func buildContents(text string, parts []prompt.InlinePart) ([]*genai.Content, error) {
	genParts := make([]*genai.Part, 0, len(parts)+1)
	genParts = append(genParts, genai.NewPartFromText(text))

	for i, p := range parts {
		data, err := base64.StdEncoding.DecodeString(p.Base64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline part %d: %w", i, err)
		}
		genParts = append(genParts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: p.MimeType,
				Data:     data,
			},
		})
	}

	return []*genai.Content{{Parts: genParts}}, nil
}

// extractImage - 응답에서 첫 번째 이미지 파트를 data URL로 추출
func extractImage(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return utils.BuildDataURL(mimeType, part.InlineData.Data), true
			}
		}
	}
	return "", false
}
