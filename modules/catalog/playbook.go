package catalog

import (
	"strings"

	"showroom-scene-server/modules/common/model"
)

// DefaultAngles - 기본 4앵글 플레이북 (카테고리 매칭 실패 시 fallback)
var DefaultAngles = []model.CameraAngle{
	{
		Title:  "Wide Environmental Portrait",
		Prompt: "A wide, eye-level, and always perfectly straight-on shot that captures the main object as the hero, perfectly centered in the frame. The camera angle is direct, showing the object's front elevation with absolute symmetry. The composition must feel balanced, formal, and spacious, like a feature in an architectural magazine. Use a wide-angle lens (e.g., 24-35mm) to establish the scene's context and atmosphere. Lighting should be a mix of soft natural light and sophisticated artificial light to highlight the object's form. The main object must be in sharp, perfect focus, while the background has a subtle, natural depth of field.",
	},
	{
		Title:  "Medium Profile Detail",
		Prompt: "**CRITICAL RULE: This is a Point-of-View (POV) shot.** The virtual camera's position is **NON-NEGOTIABLE**. It **MUST** be positioned at a precise 75-degree angle from the front of the main object, capturing its profile from either the left or the right. This specific three-quarter perspective is an absolute requirement. Render a medium shot from this exact POV, ensuring the main object is in sharp focus, revealing its depth and form. The background should have a soft, natural blur.",
	},
	{
		Title:  "Material & Texture Close-Up",
		Prompt: "**TASK: Generate an image. Your output must be only the image, with no accompanying text.** This is a close-up or macro photograph focusing on the material and texture of the main object. Frame the shot tightly on a specific, interesting detail—such as the grain of a surface, the reflection on a metallic finish, or the join between materials. Use dramatic, low-angle (grazing) light to emphasize the texture and surface details. The point of focus must be extremely sharp, capturing every fine detail with photorealistic precision. The background should be completely out of focus.",
	},
	{
		Title:  "High-Angle Medium-Close",
		Prompt: "A high-angle medium-close-up shot, looking down into the main object from a three-quarter perspective. The camera should be positioned to capture the object's interior shape, rim details, and its relationship with the immediate textures of the floor and walls. The composition should be elegant and slightly dynamic, with the object filling most of the frame. Use soft, directional lighting to create gentle highlights and shadows that define the object's form and volume. The mood should be serene and luxurious, similar to a high-end spa photograph. The focus must be critically sharp on the main object, with a gentle, natural falloff in the immediate background.",
	},
}

// CategoryPlaybook - 제품 카테고리별 앵글 플레이북
// Keywords는 제품 type 설명에 대한 부분 문자열 매칭에 사용
type CategoryPlaybook struct {
	Category string
	Keywords []string
	Angles   []model.CameraAngle
}

// categoryPlaybooks - 선언 순서가 곧 매칭 우선순위. 첫 매칭 키워드가 이긴다.
// 키워드가 카테고리 간 겹칠 수 있으므로 테이블 순서를 바꾸면 결과가 달라짐.
var categoryPlaybooks = []CategoryPlaybook{
	{
		Category: "bathtub",
		Keywords: []string{"bathtub", "tub", "bath"},
		Angles: []model.CameraAngle{
			{
				Title:  "Wide Environmental Portrait",
				Prompt: "A wide, eye-level, perfectly straight-on shot with the tub as the centered hero of the frame, showing its full front elevation with absolute symmetry. The composition must feel balanced and spacious, like an architectural magazine feature, with the entire silhouette of the tub and its surrounding floor visible. Soft natural light mixed with warm artificial light. The tub must be in sharp, perfect focus.",
			},
			{
				Title:  "Low Three-Quarter Hero",
				Prompt: "**CRITICAL RULE: This is a Point-of-View (POV) shot.** Position the virtual camera low, roughly at the height of the tub's rim, at a 45-degree angle from its front corner. This low three-quarter perspective must emphasize the sculptural mass and curvature of the tub body. Render a medium-wide shot from this exact POV with the tub in critically sharp focus and a soft, natural falloff in the background.",
			},
			{
				Title:  "Material & Texture Close-Up",
				Prompt: "**TASK: Generate an image. Your output must be only the image, with no accompanying text.** A close-up photograph of the tub's rim and outer shell, framed tightly on the transition between the rim edge and the body surface. Use dramatic, low-angle grazing light to reveal the sheen and texture of the material. Extremely sharp focus on the detail, background completely out of focus.",
			},
			{
				Title:  "High-Angle Interior View",
				Prompt: "A high-angle medium-close-up looking down into the tub basin from a three-quarter perspective, capturing the interior shape, rim details, drain placement, and the relationship with the floor textures around it. Soft, directional lighting with gentle highlights defining the basin's volume. Serene, high-end spa mood. Critically sharp focus on the tub.",
			},
		},
	},
	{
		Category: "sink",
		Keywords: []string{"sink", "basin", "vanity", "washstand"},
		Angles: []model.CameraAngle{
			{
				Title:  "Wide Environmental Portrait",
				Prompt: "A wide, eye-level, straight-on shot with the sink and its mounting surface centered in the frame, showing the full front elevation with absolute symmetry and the wall treatment behind it. Balanced, formal composition in the manner of an architectural magazine. The sink must be in sharp, perfect focus with subtle depth of field behind it.",
			},
			{
				Title:  "Countertop Three-Quarter",
				Prompt: "**CRITICAL RULE: This is a Point-of-View (POV) shot.** Position the virtual camera slightly above countertop height at a precise 75-degree angle from the front of the sink, capturing its profile and the thickness of its walls from the left or the right. Render a medium shot from this exact POV, sink in sharp focus, mirror and wall softly blurred behind it.",
			},
			{
				Title:  "Material & Texture Close-Up",
				Prompt: "**TASK: Generate an image. Your output must be only the image, with no accompanying text.** A macro photograph of the sink's rim and inner surface, framed tightly where the basin wall meets the countertop or pedestal. Dramatic grazing light to emphasize surface texture and material sheen. Extremely sharp focal point, everything else out of focus.",
			},
			{
				Title:  "High-Angle Basin View",
				Prompt: "A high-angle medium-close-up looking directly down into the basin from a three-quarter perspective, capturing the interior geometry, drain detail, and faucet relationship. Elegant composition with the basin filling most of the frame. Soft, directional lighting. Critically sharp focus on the basin interior.",
			},
		},
	},
	{
		Category: "faucet",
		Keywords: []string{"faucet", "tap", "mixer", "shower", "showerhead"},
		Angles: []model.CameraAngle{
			{
				Title:  "Medium Environmental Portrait",
				Prompt: "A medium, eye-level, straight-on shot with the fixture centered against its mounting surface, showing its full profile and spout geometry with clean symmetry. The surrounding scene provides context but stays secondary. Soft natural light with one controlled specular highlight along the fixture body. The fixture must be in sharp, perfect focus.",
			},
			{
				Title:  "Profile Detail",
				Prompt: "**CRITICAL RULE: This is a Point-of-View (POV) shot.** Position the virtual camera at a precise 90-degree side angle to the fixture, capturing its complete silhouette — spout curve, handle placement, and mounting — in profile. Render a medium-close shot from this exact POV with the fixture critically sharp and the background softly blurred.",
			},
			{
				Title:  "Finish & Reflection Close-Up",
				Prompt: "**TASK: Generate an image. Your output must be only the image, with no accompanying text.** A macro photograph of the fixture's finish, framed tightly on the spout or handle. Use controlled, dramatic lighting to show the reflection behavior of the metal — brushed grain or mirror polish — with photorealistic precision. Extremely sharp focal point, background completely out of focus.",
			},
			{
				Title:  "High-Angle Mount View",
				Prompt: "A high-angle medium-close-up looking down at the fixture from a three-quarter perspective, capturing how it meets its mounting surface and its relationship to the basin or wall below. Elegant, slightly dynamic composition. Soft, directional lighting with gentle highlights on the metal. Critically sharp focus on the fixture.",
			},
		},
	},
	{
		Category: "toilet",
		Keywords: []string{"toilet", "bidet", "wc"},
		Angles: []model.CameraAngle{
			{
				Title:  "Wide Environmental Portrait",
				Prompt: "A wide, eye-level, straight-on shot with the fixture centered in the frame, showing its full front elevation, seat, and base with absolute symmetry against the wall behind it. Balanced, formal composition like an architectural magazine feature. Sharp, perfect focus on the fixture with subtle background depth of field.",
			},
			{
				Title:  "Medium Profile Detail",
				Prompt: "**CRITICAL RULE: This is a Point-of-View (POV) shot.** Position the virtual camera at a precise 75-degree angle from the front of the fixture, capturing its profile from the left or the right — the bowl curvature, tank or in-wall plate, and base transition. Render a medium shot from this exact POV, fixture in sharp focus, background softly blurred.",
			},
			{
				Title:  "Material & Texture Close-Up",
				Prompt: "**TASK: Generate an image. Your output must be only the image, with no accompanying text.** A close-up photograph of the fixture's glaze and seam lines, framed tightly where the seat meets the bowl or the bowl meets the base. Dramatic grazing light to reveal the surface quality of the ceramic. Extremely sharp focal point, background completely out of focus.",
			},
			{
				Title:  "High-Angle Medium-Close",
				Prompt: "A high-angle medium-close-up looking down at the fixture from a three-quarter perspective, capturing the bowl geometry, flush controls, and floor junction. Clean, elegant composition with the fixture filling most of the frame. Soft, directional lighting. Critically sharp focus on the fixture.",
			},
		},
	},
}

// SelectPlaybook - 제품 type 설명으로 앵글 플레이북 선택
// enabled=false이면 항상 기본 플레이북.
// 매칭은 소문자 부분 문자열 비교이며 첫 매칭 키워드가 이긴다 (테이블 순서 중요).
func SelectPlaybook(productType string, enabled bool) []model.CameraAngle {
	if !enabled {
		return DefaultAngles
	}

	haystack := strings.ToLower(productType)
	for _, pb := range categoryPlaybooks {
		for _, kw := range pb.Keywords {
			if strings.Contains(haystack, kw) {
				return pb.Angles
			}
		}
	}
	return DefaultAngles
}

// PlaybookCategory - 매칭된 카테고리명 (매칭 실패/비활성 시 "default")
func PlaybookCategory(productType string, enabled bool) string {
	if !enabled {
		return "default"
	}

	haystack := strings.ToLower(productType)
	for _, pb := range categoryPlaybooks {
		for _, kw := range pb.Keywords {
			if strings.Contains(haystack, kw) {
				return pb.Category
			}
		}
	}
	return "default"
}
