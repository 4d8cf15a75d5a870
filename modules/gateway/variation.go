package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"

	"showroom-scene-server/modules/common/gemini"
	"showroom-scene-server/modules/common/model"
	"showroom-scene-server/modules/prompt"
)

// GenerateVariation - 마스터 씬 기반 단일 앵글 재촬영
func (s *Service) GenerateVariation(ctx context.Context, masterScene model.SeedImage, angle model.CameraAngle, productNames string) (string, error) {
	op := fmt.Sprintf("scene variation generation for %q", angle.Title)

	text := prompt.Variation(angle, productNames)
	contents, err := buildContents(text, []prompt.InlinePart{
		{Base64: masterScene.Base64, MimeType: masterScene.MimeType},
	})
	if err != nil {
		return "", gemini.Classify(err, op)
	}

	resp, err := s.generateImage(ctx, contents, imageGenConfig())
	if err != nil {
		return "", gemini.Classify(err, op)
	}

	src, ok := extractImage(resp)
	if !ok {
		return "", gemini.Classify(fmt.Errorf("no image data in response"), op)
	}
	return src, nil
}

// GenerateVariations - 앵글 목록 전체를 병렬 생성 (settle-all)
// 결과는 앵글 인덱스에 정렬되며, 실패한 앵글은 Src=nil로 남고 전체는 실패하지 않는다
func (s *Service) GenerateVariations(ctx context.Context, masterScene model.SeedImage, angles []model.CameraAngle, productNames string) []model.GeneratedVariation {
	log.Printf("🎬 [Gateway] Generating %d scene variations in parallel", len(angles))

	results := make([]model.GeneratedVariation, len(angles))
	var wg sync.WaitGroup

	for i, angle := range angles {
		wg.Add(1)
		go func(idx int, a model.CameraAngle) {
			defer wg.Done()

			src, err := s.GenerateVariation(ctx, masterScene, a, productNames)
			if err != nil {
				log.Printf("❌ [Gateway] Variation %d (%s) failed: %v", idx, a.Title, err)
				results[idx] = model.GeneratedVariation{Index: idx, Src: nil, Title: a.Title}
				return
			}

			log.Printf("✅ [Gateway] Variation %d (%s) generated", idx, a.Title)
			results[idx] = model.GeneratedVariation{Index: idx, Src: &src, Title: a.Title}
		}(i, angle)
	}

	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Src != nil {
			succeeded++
		}
	}
	log.Printf("🏁 [Gateway] Variation batch settled: %d/%d succeeded", succeeded, len(angles))
	return results
}
