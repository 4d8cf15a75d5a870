package catalog

import (
	"fmt"
	"strings"

	"showroom-scene-server/modules/common/model"
)

// CustomOption - 스타일/재질/마감 선택지의 "직접 입력" 마커
const CustomOption = "Custom"

// RoomStyles - 씬 스타일 프리셋
var RoomStyles = []string{
	"Luxury Contemporary",
	"Minimalist Scandinavian",
	"Modern Farmhouse",
	"Art Deco",
	"Industrial Loft",
	"Coastal Hampton",
	"Bohemian Chic",
	"Mid-Century Modern",
	"Japandi",
}

// Materials - 재질 프리셋
var Materials = []string{
	"Ceramic",
	"Acrylic",
	"Porcelain",
	"Stone Resin",
	"Cast Iron",
	"Wood",
	"Glass",
	"Concrete",
}

// Finishes - 마감 프리셋
var Finishes = []string{
	"Gloss White",
	"Matte White",
	"Matte Black",
	"Brushed Nickel",
	"Chrome",
	"Polished Brass",
	"Brushed Gold",
	"Oil-Rubbed Bronze",
}

// DefaultStyle - 초기 스타일
func DefaultStyle() string {
	return RoomStyles[0]
}

// IsKnownStyle - 프리셋 스타일인지 확인
func IsKnownStyle(style string) bool {
	for _, s := range RoomStyles {
		if s == style {
			return true
		}
	}
	return false
}

// ResolveStyle - 최종 스타일 문자열 계산
// "Custom" 선택 시 직접 입력 값을 사용하고, 결과가 빈 문자열이면 에러
func ResolveStyle(style, customStyle string) (string, error) {
	resolved := style
	if style == CustomOption {
		resolved = customStyle
	}
	resolved = strings.TrimSpace(resolved)
	if resolved == "" {
		return "", fmt.Errorf("Please enter a custom style or select a predefined one.")
	}
	return resolved, nil
}

// NormalizeMaterial - 입력 값을 Choice variant로 정규화
func NormalizeMaterial(c model.Choice) model.Choice {
	return normalizeChoice(c, Materials)
}

// NormalizeFinish - 입력 값을 Choice variant로 정규화
func NormalizeFinish(c model.Choice) model.Choice {
	return normalizeChoice(c, Finishes)
}

// normalizeChoice - preset 값 검증 + 빈 값/"not specified" 정리
// 프리셋 목록에 없는 preset 값은 custom으로 강등한다
func normalizeChoice(c model.Choice, presets []string) model.Choice {
	trimmed := strings.TrimSpace(c.Value)

	switch c.Kind {
	case model.ChoicePreset:
		if trimmed == "" || strings.EqualFold(trimmed, "not specified") {
			return model.Unspecified()
		}
		for _, p := range presets {
			if p == trimmed {
				return model.Choice{Kind: model.ChoicePreset, Value: p}
			}
		}
		return model.Choice{Kind: model.ChoiceCustom, Value: trimmed}
	case model.ChoiceCustom:
		// 빈 custom은 "입력 대기" 상태로 유지 (기존 공백 sentinel 대체)
		return model.Choice{Kind: model.ChoiceCustom, Value: trimmed}
	default:
		return model.Unspecified()
	}
}
