package prompt

import (
	"fmt"
	"strings"

	"showroom-scene-server/modules/common/fallback"
	"showroom-scene-server/modules/common/model"
)

// InlinePart - 프롬프트에 동반되는 바이너리 파트 (순서 보장)
type InlinePart struct {
	Base64   string
	MimeType string
}

// FallbackProductName - 선택된 제품이 없을 때 variation 프롬프트에 쓰는 대체 명칭
const FallbackProductName = "the main product"

// Identify - 씬 내 제품 식별 지시문
func Identify() string {
	return `Analyze this image of a room. Identify the main, distinct products in the scene (e.g., bathtub, sink, faucet, toilet, vanity). For each product, provide a short, simple name and a descriptive type that includes its installation style (e.g., "Built-in Tub", "Freestanding Sink", "Wall-mounted Faucet"). Provide the output as a JSON array.`
}

// ProductNameSummary - 선택 제품명을 콤마로 연결. 비어 있으면 generic fallback
func ProductNameSummary(products []model.ProductAssets) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Product.Name)
	}
	return fallback.SafeString(strings.Join(names, ", "), FallbackProductName)
}

// MasterScene - 마스터 씬 생성 지시문 + 바이너리 파트 목록
// 파트 순서: 룸 씬(있으면) → 제품별 상세컷 → 제품별 스펙 시트
func MasterScene(roomScene *model.SeedImage, products []model.ProductAssets, style string) (string, []InlinePart) {
	parts := make([]InlinePart, 0, 1+len(products)*2)

	if roomScene != nil {
		parts = append(parts, InlinePart{Base64: roomScene.Base64, MimeType: roomScene.MimeType})
	}
	for _, p := range products {
		for _, shot := range p.Shots {
			parts = append(parts, InlinePart{Base64: shot.Base64, MimeType: shot.MimeType})
		}
	}
	for _, p := range products {
		if p.SpecSheet != nil {
			parts = append(parts, InlinePart{Base64: p.SpecSheet.Base64, MimeType: p.SpecSheet.MimeType})
		}
	}

	var instructions strings.Builder
	for _, p := range products {
		instructions.WriteString(productInstruction(p, roomScene != nil))
	}

	productNames := ProductNameSummary(products)

	var text string
	if roomScene != nil {
		text = sceneBasedMasterPrompt(productNames, instructions.String(), style)
	} else {
		text = productFirstMasterPrompt(productNames, instructions.String(), style)
	}
	return text, parts
}

// productInstruction - 제품 하나에 대한 지시 블록
// 상세컷 유무 / 스펙 시트 / 치수 텍스트 / 재질·마감 / 설치 방식 절을 조합
func productInstruction(p model.ProductAssets, sceneBased bool) string {
	hasShots := len(p.Shots) > 0

	dimension := ""
	if p.SpecSheet != nil {
		dimension = `
  - **Dimensional & Technical Data (CRITICAL):** A specification sheet is attached for this product. It is a NON-NEGOTIABLE, absolute requirement that you strictly adhere to ALL dimensions, proportions, and technical details described in this document. The product MUST be rendered with perfect physical and dimensional accuracy. Any deviation from the provided specifications is a failure.`
	}
	if dims := strings.TrimSpace(p.Product.Dimensions); dims != "" {
		dimension += fmt.Sprintf(`
  - **Stated Dimensions (CRITICAL):** The user has specified the following dimensions for this product: "%s". The rendered product MUST respect these measurements and their proportions exactly.`, dims)
	}

	materialFinish := ""
	material, hasMaterial := p.Product.Material.Resolved()
	finish, hasFinish := p.Product.Finish.Resolved()
	if hasMaterial || hasFinish {
		materialFinish = "\n  - **Material & Finish (CRITICAL):** The product MUST be rendered with the following user-specified characteristics. This is a non-negotiable rule."
		if hasMaterial {
			materialFinish += fmt.Sprintf("\n    - **Material:** %s", material)
		}
		if hasFinish {
			materialFinish += fmt.Sprintf("\n    - **Finish:** %s", finish)
		}
	}

	if sceneBased {
		if hasShots {
			return fmt.Sprintf(`
- **Product to Showcase (from images):** %s
  - **Visual Source & Reproduction Mandate (NON-NEGOTIABLE CORE DIRECTIVE):** The provided "Detailed Product Shots" are the absolute, inviolable source of truth for this product's appearance. Your single most important task is to create an identical, photorealistic digital twin. You are not an artist here; you are a precision replicator. You must carefully analyze the object's shape and form from the provided images, including its contours, silhouette, and three-dimensional structure. You MUST replicate its exact shape, precise dimensions, specific color values, surface texture, material properties, and every single design detail with zero deviation. Any artistic license, interpretation, or modification—no matter how small—is a complete failure of the task.%s%s
  - **Required Installation Style:** The product in the "Original Room Scene" was identified as a "%s". You MUST install this new product in the exact same style. For example, if the original was a built-in tub, the new tub must be built-in. This is a critical rule.`,
				p.Product.Name, dimension, materialFinish, p.Product.Type)
		}
		return fmt.Sprintf(`
- **Product to Generate (from description):** %s
  - **Visual Source:** No detail shots were provided. You must **invent** a new, modern, and luxurious version of this product based on its description: "%s".%s%s
  - **Required Installation Style:** The product in the "Original Room Scene" was identified as a "%s". You MUST install your newly generated product in this exact same style. This is a critical rule.`,
			p.Product.Name, p.Product.Type, dimension, materialFinish, p.Product.Type)
	}

	// product-first 경로: 설치 방식은 제품 설명에서 유도
	return fmt.Sprintf(`
- **Product to Showcase (from images):** %s
  - **Visual Source & Reproduction Mandate (NON-NEGOTIABLE CORE DIRECTIVE):** The provided "Detailed Product Shots" are the absolute, inviolable source of truth for this product's appearance. Your single most important task is to create an identical, photorealistic digital twin. You are not an artist here; you are a precision replicator. You must carefully analyze the object's shape and form from the provided images, including its contours, silhouette, and three-dimensional structure. You MUST replicate its exact shape, precise dimensions, specific color values, surface texture, material properties, and every single design detail with zero deviation. Any artistic license, interpretation, or modification—no matter how small—is a complete failure of the task.%s%s
  - **Required Installation Style:** You must install this product based on its description: "%s". For example, if it's a "Wall-mounted Faucet", it must be attached to a wall. Use a logical and aesthetically pleasing installation for the new room you are creating. This is a critical rule.`,
		p.Product.Name, dimension, materialFinish, p.Product.Type)
}

func sceneBasedMasterPrompt(productNames, productInstructions, style string) string {
	return fmt.Sprintf(`**Objective:** Design a brand new, luxurious, and photorealistic bathroom scene in a specific style to showcase new products. A product's appearance is either defined by "Detailed Product Shots" if they are provided, or generated by you based on a description if they are not. The installation method for all products is dictated by the "Original Room Scene."

**Main Products to Showcase:** %s

**Source Images Provided:**
1.  **Original Room Scene:** Use this image ONLY to understand the installation context of the product(s) being replaced (e.g., "Built-in Tub", "Freestanding Sink"). **DO NOT COPY THE STYLE, LAYOUT, COLORS, OR MATERIALS OF THIS ROOM.** The final images should look nothing like this room.
2.  **Detailed Product Shots (Optional):** If provided for a specific product, these are multiple, high-resolution images of that product. They are the absolute source of truth for that product's appearance.
3.  **Dimension/Spec Sheet (Optional):** If provided, this document contains precise technical data about the product.

**Product & Installation Rules:**
%s

**CRITICAL RULES:**

1.  **Product Reproduction Accuracy (ABSOLUTE HIGHEST PRIORITY):** Your primary, non-negotiable directive is the flawless, 100%% accurate reproduction of the user-provided products.
    - **Visuals (The Unbreakable Rule):** When "Detailed Product Shots" are provided, your output must be an identical digital copy. Study the images meticulously, performing a deep analysis of the product's form. Pay close attention to its overall silhouette, the curvature of surfaces, the sharpness of edges, and the precise geometry of all components. The final rendered product's shape, scale, proportions, color, texture, material sheen, and every single design feature (curves, edges, handles, etc.) MUST be a perfect, 1:1 match to the source images. There is zero room for creative interpretation. Do not 'improve' or 'adapt' the design. Replicate it exactly.
    - **Dimensions:** When a "Dimension/Spec Sheet" is provided, you MUST strictly and precisely adhere to ALL its specifications. This is non-negotiable.
    - **Functional Details:** All functional elements like drain openings, faucet holes, and handles must be rendered with perfect physical accuracy as seen in the source materials.
2.  **Invent a New Room in a Specific Style:** You must create a completely new, modern, and aesthetically pleasing bathroom environment from your imagination based on the requested style.
    - **Requested Style:** %s
    - This room should be designed to make the new product look its absolute best, like a professional photograph from an architecture magazine. The final scene must be original and should not resemble the "Original Room Scene" in any way.
3.  **Contextual Installation:** While the room is new, the product installation MUST follow the style derived from the "Original Room Scene" as specified above. The product must connect to the new room's architecture (walls, floor, plumbing) in a logical and physically believable way based on its type.
4.  **Aspect Ratio:** The final output image MUST have a 16:9 landscape aspect ratio. This is a strict rendering requirement.

**Your Task:**
1.  Analyze any "Detailed Product Shots" and "Dimension/Spec Sheets" to create perfect, photorealistic digital twins of those new products.
2.  For products without detail shots, invent a new, luxurious product based on its description.
3.  Analyze the "Original Room Scene" ONLY to determine the required installation style for each product.
4.  Design and render a single, final version of a completely new, luxurious bathroom scene in the **"%s"** style.
5.  Install the new products into this new scene, following the installation rules.
6.  Render a final image of this scene from the specific camera angle defined below.

**Camera Angle:** "Master Establishing Shot"
A wide, eye-level establishing shot of the entire room, showing the product in its context. This should be a clean, clear, well-lit photograph that defines the overall style and layout of the new scene. The main product(s) being showcased must be in sharp focus.`,
		productNames, productInstructions, style, style)
}

func productFirstMasterPrompt(productNames, productInstructions, style string) string {
	return fmt.Sprintf(`**Objective:** Design a brand new, luxurious, and photorealistic bathroom scene from scratch in a specific style to showcase one or more user-provided products.

**Main Products to Showcase:** %s

**Source Images Provided:**
1.  **Detailed Product Shots:** These are multiple, high-resolution images of the product(s) to be featured. They are the absolute source of truth for the product's appearance.
2.  **Dimension/Spec Sheet (Optional):** If provided, this document contains precise technical data about the product.

**Product & Installation Rules:**
%s

**CRITICAL RULES:**

1.  **Product Reproduction Accuracy (ABSOLUTE HIGHEST PRIORITY):** Your primary, non-negotiable directive is the flawless, 100%% accurate reproduction of the user-provided products.
    - **Visuals (The Unbreakable Rule):** When "Detailed Product Shots" are provided, your output must be an identical digital copy. Study the images meticulously, performing a deep analysis of the product's form. Pay close attention to its overall silhouette, the curvature of surfaces, the sharpness of edges, and the precise geometry of all components. The final rendered product's shape, scale, proportions, color, texture, material sheen, and every single design feature (curves, edges, handles, etc.) MUST be a perfect, 1:1 match to the source images. There is zero room for creative interpretation. Do not 'improve' or 'adapt' the design. Replicate it exactly.
    - **Dimensions:** When a "Dimension/Spec Sheet" is provided, you MUST strictly and precisely adhere to ALL its specifications. This is non-negotiable.
    - **Functional Details:** All functional elements like drain openings, faucet holes, and handles must be rendered with perfect physical accuracy as seen in the source materials.
2.  **Invent a New Room in a Specific Style:** You must create a completely new, modern, and aesthetically pleasing bathroom environment from your imagination based on the requested style.
    - **Requested Style:** %s
    - This room should be designed to make the new product(s) look their absolute best, like a professional photograph from an architecture magazine.
3.  **Contextual Installation:** The product installation MUST follow the description provided for it (e.g., "Freestanding Tub," "Wall-mounted Faucet"). The product must connect to the new room's architecture (walls, floor, plumbing) in a logical and physically believable way.
4.  **Aspect Ratio:** The final output image MUST have a 16:9 landscape aspect ratio. This is a strict rendering requirement.

**Your Task:**
1.  Analyze the "Detailed Product Shots" and "Dimension/Spec Sheets" to create perfect, photorealistic digital twins of the new products.
2.  Design and render a single, final version of a completely new, luxurious bathroom scene in the **"%s"** style that complements the products.
3.  Install the new products into this new scene, following the installation rules.
4.  Render a final image of this scene from the specific camera angle defined below.

**Camera Angle:** "Master Establishing Shot"
A wide, eye-level establishing shot of the entire room, showing the product in its context. This should be a clean, clear, well-lit photograph that defines the overall style and layout of the new scene. The main product(s) being showcased must be in sharp focus.`,
		productNames, productInstructions, style, style)
}

// Variation - 마스터 씬 기반 단일 앵글 재촬영 지시문
// 카메라 위치 외 모든 요소의 완전한 연속성을 강제한다
func Variation(angle model.CameraAngle, productNames string) string {
	return fmt.Sprintf(`**Objective:** Re-shoot an established scene from a specific new camera angle while maintaining perfect continuity.

**Source Image Provided:**
1.  **Master Scene Image:** This is the single, perfect, wide-shot photograph of the final room. This image is the **absolute and non-negotiable source of truth** for the room's architecture, materials, colors, lighting, style, and the product's appearance and placement within it.

**The Main Object(s) of Focus:** The primary subject(s) for this new shot are: **%s**. Ensure the camera angle and composition highlight this/these product(s) as the hero element(s) of the image.

**CRITICAL RULES:**

1.  **Perfect Continuity (Highest Priority):** You MUST render the new image from *within the exact same room* depicted in the "Master Scene Image". Every single detail—the walls, floor, window, view, lighting, textures, and the product itself—must be perfectly and identically consistent. The new image must look like it was taken seconds after the master shot, just from a different camera position. Any deviation is a failure. Pay special attention to the main product(s): their form, proportions, color, texture, and functional details (like drain location, handles, etc.) MUST be rendered with absolute, unwavering consistency between this shot and the master scene. It must be the exact same object, just viewed from a different angle.
2.  **Camera Angle Execution:** You must precisely follow the new camera angle instructions provided below. Do not change the scene; only change the camera's position and framing as instructed.
3.  **Aspect Ratio:** The final output image MUST have a 16:9 landscape aspect ratio. This is a strict rendering requirement.

**Your Task:**
1.  Analyze the "Master Scene Image" to perfectly understand the entire scene.
2.  Recreate this scene with 100%% fidelity in your internal 3D space.
3.  Position your virtual camera according to the specified "Camera Angle."
4.  Render a new, photorealistic image from that perspective. This is your only output.

**Camera Angle:** "%s"
%s
`, productNames, angle.Title, angle.Prompt)
}
