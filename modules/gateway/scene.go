package gateway

import (
	"context"
	"fmt"
	"log"

	"showroom-scene-server/modules/common/gemini"
	"showroom-scene-server/modules/common/model"
	"showroom-scene-server/modules/prompt"
)

// GenerateMasterScene - 마스터 씬 생성. 성공 시 data URL 반환
// roomScene이 nil이면 product-first 경로 프롬프트를 쓴다
func (s *Service) GenerateMasterScene(ctx context.Context, roomScene *model.SeedImage, products []model.ProductAssets, style string) (string, error) {
	const op = "master scene generation"

	log.Printf("🎨 [Gateway] Generating master scene (style: %s, products: %d, sceneBased: %v)",
		style, len(products), roomScene != nil)

	text, parts := prompt.MasterScene(roomScene, products, style)
	contents, err := buildContents(text, parts)
	if err != nil {
		return "", gemini.Classify(err, op)
	}

	resp, err := s.generateImage(ctx, contents, imageGenConfig())
	if err != nil {
		log.Printf("❌ [Gateway] Master scene generation failed: %v", err)
		return "", gemini.Classify(err, op)
	}

	src, ok := extractImage(resp)
	if !ok {
		log.Printf("❌ [Gateway] Master scene response contained no image data")
		return "", gemini.Classify(fmt.Errorf("no image data in response"), op)
	}

	log.Printf("✅ [Gateway] Master scene generated (%d chars)", len(src))
	return src, nil
}
