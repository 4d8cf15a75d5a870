package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG 디코더 등록
	_ "image/png"  // PNG 디코더 등록
	"log"
	"strings"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"showroom-scene-server/modules/common/model"
)

// BuildDataURL - 이미지 바이너리를 data URL로 변환
func BuildDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// ParseDataURL - data URL을 SeedImage로 분해
// "data:image/png;base64,...." 형식이 아니면 에러
func ParseDataURL(dataURL string) (model.SeedImage, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return model.SeedImage{}, fmt.Errorf("not a data URL")
	}

	rest := dataURL[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep <= 0 {
		return model.SeedImage{}, fmt.Errorf("missing media type or base64 marker")
	}

	mimeType := rest[:sep]
	payload := rest[sep+len(";base64,"):]
	if payload == "" {
		return model.SeedImage{}, fmt.Errorf("empty payload")
	}

	// payload 유효성 검사 (디코딩 가능 여부만 확인)
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return model.SeedImage{}, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return model.SeedImage{Base64: payload, MimeType: mimeType}, nil
}

// DecodeSeedImage - SeedImage의 base64 payload를 바이너리로 디코딩
func DecodeSeedImage(img model.SeedImage) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// ConvertToWebP - PNG/JPEG 바이너리를 WebP로 변환 (다운로드 전용, 저장 안 함)
func ConvertToWebP(imageData []byte, quality float32) ([]byte, error) {
	log.Printf("🔄 Converting image to WebP (quality: %.1f)", quality)

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	log.Printf("✅ %s converted to WebP: %d bytes → %d bytes", format, len(imageData), len(webpData))
	return webpData, nil
}
