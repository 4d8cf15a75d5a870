package prompt

import (
	"strings"
	"testing"

	"showroom-scene-server/modules/common/model"
)

func seed(tag string) model.SeedImage {
	return model.SeedImage{Base64: tag, MimeType: "image/png"}
}

func TestIdentifyPrompt(t *testing.T) {
	text := Identify()
	if !strings.Contains(text, "Identify the main, distinct products") {
		t.Error("identify prompt missing core instruction")
	}
	if !strings.Contains(text, "JSON array") {
		t.Error("identify prompt must request a JSON array")
	}
}

func TestProductNameSummary(t *testing.T) {
	products := []model.ProductAssets{
		{Product: model.Product{Name: "Soaking Tub"}},
		{Product: model.Product{Name: "Brass Faucet"}},
	}
	if got := ProductNameSummary(products); got != "Soaking Tub, Brass Faucet" {
		t.Errorf("got %q", got)
	}
	if got := ProductNameSummary(nil); got != FallbackProductName {
		t.Errorf("empty selection should fall back, got %q", got)
	}

	// 이름 미입력 제품만 선택된 경우도 generic fallback
	blank := []model.ProductAssets{{Product: model.Product{Name: ""}}}
	if got := ProductNameSummary(blank); got != FallbackProductName {
		t.Errorf("blank-only names should fall back, got %q", got)
	}
}

func TestMasterScenePartsOrder(t *testing.T) {
	room := seed("room")
	products := []model.ProductAssets{
		{
			Product:   model.Product{Name: "Tub", Type: "Freestanding Tub"},
			Shots:     []model.SeedImage{seed("tub-1"), seed("tub-2")},
			SpecSheet: &model.SpecDocument{Base64: "tub-spec", MimeType: "application/pdf", Name: "tub.pdf"},
		},
		{
			Product: model.Product{Name: "Faucet", Type: "Wall-mounted Faucet"},
			Shots:   []model.SeedImage{seed("faucet-1")},
		},
	}

	_, parts := MasterScene(&room, products, "Japandi")

	got := make([]string, len(parts))
	for i, p := range parts {
		got[i] = p.Base64
	}
	want := []string{"room", "tub-1", "tub-2", "faucet-1", "tub-spec"}
	if len(got) != len(want) {
		t.Fatalf("got %d parts %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part %d: got %q, want %q (room scene, shots grouped by product, then spec sheets)", i, got[i], want[i])
		}
	}
}

func TestMasterSceneSceneBasedVariant(t *testing.T) {
	room := seed("room")
	products := []model.ProductAssets{
		{Product: model.Product{Name: "Tub", Type: "Built-in Tub"}, Shots: []model.SeedImage{seed("s")}},
	}

	text, _ := MasterScene(&room, products, "Art Deco")

	if !strings.Contains(text, "Original Room Scene") {
		t.Error("scene-based prompt must reference the original room scene")
	}
	if !strings.Contains(text, "DO NOT COPY THE STYLE, LAYOUT, COLORS, OR MATERIALS OF THIS ROOM") {
		t.Error("scene-based prompt must forbid copying the original room")
	}
	if !strings.Contains(text, `was identified as a "Built-in Tub"`) {
		t.Error("installation style must come from the identified product type")
	}
	if !strings.Contains(text, "16:9 landscape aspect ratio") {
		t.Error("aspect ratio rule missing")
	}
	if strings.Count(text, "Art Deco") < 2 {
		t.Error("requested style should appear in both the rules and the task")
	}
}

func TestMasterSceneProductFirstVariant(t *testing.T) {
	products := []model.ProductAssets{
		{Product: model.Product{Name: "Basin", Type: "Countertop Basin"}, Shots: []model.SeedImage{seed("s")}},
	}

	text, parts := MasterScene(nil, products, "Japandi")

	if strings.Contains(text, "Original Room Scene") {
		t.Error("product-first prompt must not reference an original room scene")
	}
	if !strings.Contains(text, "from scratch") {
		t.Error("product-first prompt should describe building the scene from scratch")
	}
	if !strings.Contains(text, `based on its description: "Countertop Basin"`) {
		t.Error("installation style must come from the product description")
	}
	if len(parts) != 1 || parts[0].Base64 != "s" {
		t.Errorf("unexpected parts: %+v", parts)
	}
}

func TestMasterSceneInventsWithoutShots(t *testing.T) {
	room := seed("room")
	products := []model.ProductAssets{
		{Product: model.Product{Name: "Faucet", Type: "Wall-mounted Faucet"}},
	}

	text, _ := MasterScene(&room, products, "Japandi")

	if !strings.Contains(text, "**invent**") {
		t.Error("products without detail shots must be invented from the description")
	}
	if strings.Contains(text, "Reproduction Mandate") {
		t.Error("reproduction mandate applies only when detail shots exist")
	}
}

func TestMasterSceneMaterialFinishClause(t *testing.T) {
	room := seed("room")
	products := []model.ProductAssets{
		{
			Product: model.Product{
				Name:     "Tub",
				Type:     "Freestanding Tub",
				Material: model.Choice{Kind: model.ChoicePreset, Value: "Stone Resin"},
				Finish:   model.Choice{Kind: model.ChoiceCustom, Value: "Hammered Copper"},
			},
			Shots: []model.SeedImage{seed("s")},
		},
	}

	text, _ := MasterScene(&room, products, "Japandi")

	if !strings.Contains(text, "**Material:** Stone Resin") {
		t.Error("resolved material must appear in the instruction block")
	}
	if !strings.Contains(text, "**Finish:** Hammered Copper") {
		t.Error("resolved custom finish must appear in the instruction block")
	}
}

func TestMasterSceneOmitsUnspecifiedMaterialFinish(t *testing.T) {
	room := seed("room")
	products := []model.ProductAssets{
		{Product: model.Product{Name: "Tub", Type: "Tub"}, Shots: []model.SeedImage{seed("s")}},
	}

	text, _ := MasterScene(&room, products, "Japandi")

	if strings.Contains(text, "Material & Finish (CRITICAL)") {
		t.Error("material/finish clause must be omitted when neither is specified")
	}
}

func TestMasterSceneDimensionClauses(t *testing.T) {
	room := seed("room")
	products := []model.ProductAssets{
		{
			Product:   model.Product{Name: "Tub", Type: "Tub", Dimensions: "1700 x 750 x 580 mm"},
			Shots:     []model.SeedImage{seed("s")},
			SpecSheet: &model.SpecDocument{Base64: "spec", MimeType: "application/pdf", Name: "spec.pdf"},
		},
	}

	text, _ := MasterScene(&room, products, "Japandi")

	if !strings.Contains(text, "A specification sheet is attached for this product") {
		t.Error("spec sheet clause missing")
	}
	if !strings.Contains(text, `"1700 x 750 x 580 mm"`) {
		t.Error("user-entered dimensions clause missing")
	}
}

func TestVariationPrompt(t *testing.T) {
	angle := model.CameraAngle{Title: "Medium Profile Detail", Prompt: "Precise 75-degree POV."}
	text := Variation(angle, "Soaking Tub, Brass Faucet")

	if !strings.Contains(text, "perfect continuity") && !strings.Contains(text, "Perfect Continuity") {
		t.Error("variation prompt must demand continuity with the master scene")
	}
	if !strings.Contains(text, `**Camera Angle:** "Medium Profile Detail"`) {
		t.Error("angle title missing")
	}
	if !strings.Contains(text, "Precise 75-degree POV.") {
		t.Error("angle prompt body missing")
	}
	if !strings.Contains(text, "**Soaking Tub, Brass Faucet**") {
		t.Error("product names missing")
	}
	if !strings.Contains(text, "16:9 landscape aspect ratio") {
		t.Error("aspect ratio rule missing")
	}
}
