package model

import "time"

// WorkflowStep - 워크플로우 단계
type WorkflowStep string

const (
	StepWorkflowSelection     WorkflowStep = "workflow_selection"
	StepSceneUpload           WorkflowStep = "scene_upload"
	StepProductIdentification WorkflowStep = "product_identification"
	StepProductSelection      WorkflowStep = "product_selection"
	StepDirectProductUpload   WorkflowStep = "direct_product_upload"
	StepDetailUpload          WorkflowStep = "detail_upload"
	StepMasterSceneGeneration WorkflowStep = "master_scene_generation"
	StepSceneApproval         WorkflowStep = "scene_approval"
	StepGenerating            WorkflowStep = "generating"
	StepResults               WorkflowStep = "results"
)

// SeedImage - base64 인코딩된 이미지 (업로드 원본 / 생성 결과 공용)
type SeedImage struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// SpecDocument - 제품 치수/스펙 시트 첨부 파일
type SpecDocument struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// ChoiceKind - material/finish 선택 상태
type ChoiceKind string

const (
	ChoiceUnspecified ChoiceKind = "unspecified"
	ChoicePreset      ChoiceKind = "preset"
	ChoiceCustom      ChoiceKind = "custom"
)

// Choice - material/finish 값
// 기존 프론트는 "custom 입력 대기"를 공백 한 칸 sentinel로 표현했음.
// 여기서는 {unspecified | preset | custom} variant로 대체한다.
type Choice struct {
	Kind  ChoiceKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// Unspecified - 빈 Choice
func Unspecified() Choice {
	return Choice{Kind: ChoiceUnspecified}
}

// Resolved - 프롬프트에 실을 최종 값. custom 입력 대기(빈 값)는 미지정 취급
func (c Choice) Resolved() (string, bool) {
	switch c.Kind {
	case ChoicePreset, ChoiceCustom:
		if c.Value == "" {
			return "", false
		}
		return c.Value, true
	default:
		return "", false
	}
}

// Product - 씬에서 식별되었거나 사용자가 직접 등록한 제품
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"` // 설치 방식 포함 설명 (예: "Freestanding Acrylic Tub")
	Material   Choice `json:"material"`
	Finish     Choice `json:"finish"`
	Dimensions string `json:"dimensions,omitempty"` // 자유 입력 치수 텍스트
}

// ProductAssets - 선택된 제품 + 상세컷 + 스펙 시트 묶음
type ProductAssets struct {
	Product   Product       `json:"product"`
	Shots     []SeedImage   `json:"shots"`
	SpecSheet *SpecDocument `json:"specSheet"`
}

// CameraAngle - 카메라 앵글 정의 (제목 + 렌더링 지시문)
type CameraAngle struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// GeneratedVariation - 앵글별 생성 결과. Src가 nil이면 해당 앵글 생성 실패
type GeneratedVariation struct {
	Index int     `json:"index"`
	Src   *string `json:"src"` // data URL
	Title string  `json:"title"`
}

// WorkflowState - 세션 단위 aggregate root. 모든 변경은 workflow.Store를 통해서만 수행
type WorkflowState struct {
	SessionID string       `json:"sessionId"`
	Step      WorkflowStep `json:"step"`

	RoomScene   *SeedImage               `json:"roomScene"`
	Products    []Product                `json:"products"`
	SelectedIDs []string                 `json:"selectedIds"` // 선택 순서 유지
	DetailShots map[string][]SeedImage   `json:"detailShots"`
	SpecSheets  map[string]*SpecDocument `json:"specSheets"`

	SceneStyle       string `json:"sceneStyle"`
	CustomSceneStyle string `json:"customSceneStyle"`

	MasterScene string               `json:"masterScene"` // data URL, 빈 문자열 = 없음
	Playbook    []CameraAngle        `json:"playbook"`    // 배치 생성에 사용한 앵글 목록
	Variations  []GeneratedVariation `json:"variations"`

	ErrorMessage   string `json:"errorMessage"`
	IsLoading      bool   `json:"isLoading"`
	LoadingMessage string `json:"loadingMessage"`

	// 단일 재생성 latch. nil이 아니면 해당 인덱스 재생성 진행 중
	RegeneratingIndex *int `json:"regeneratingIndex"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsSelected - 선택 집합 멤버십 확인
func (s *WorkflowState) IsSelected(productID string) bool {
	for _, id := range s.SelectedIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// ToggleSelection - 선택 토글. 순서 보존, 중복 없음
func (s *WorkflowState) ToggleSelection(productID string) {
	for i, id := range s.SelectedIDs {
		if id == productID {
			s.SelectedIDs = append(s.SelectedIDs[:i], s.SelectedIDs[i+1:]...)
			return
		}
	}
	s.SelectedIDs = append(s.SelectedIDs, productID)
}

// ProductByID - 제품 조회
func (s *WorkflowState) ProductByID(productID string) *Product {
	for i := range s.Products {
		if s.Products[i].ID == productID {
			return &s.Products[i]
		}
	}
	return nil
}

// SelectedWithAssets - 선택 집합을 제품 목록과 join.
// 선택 순서를 유지하고, 대응 제품이 없는 id는 조용히 건너뛴다.
func (s *WorkflowState) SelectedWithAssets() []ProductAssets {
	out := make([]ProductAssets, 0, len(s.SelectedIDs))
	for _, id := range s.SelectedIDs {
		p := s.ProductByID(id)
		if p == nil {
			continue
		}
		shots := s.DetailShots[id]
		if shots == nil {
			shots = []SeedImage{}
		}
		out = append(out, ProductAssets{
			Product:   *p,
			Shots:     shots,
			SpecSheet: s.SpecSheets[id],
		})
	}
	return out
}

// RemoveProduct - 제품 제거 + 연관 데이터 cascade 삭제
func (s *WorkflowState) RemoveProduct(productID string) {
	for i := range s.Products {
		if s.Products[i].ID == productID {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			break
		}
	}
	for i, id := range s.SelectedIDs {
		if id == productID {
			s.SelectedIDs = append(s.SelectedIDs[:i], s.SelectedIDs[i+1:]...)
			break
		}
	}
	delete(s.DetailShots, productID)
	delete(s.SpecSheets, productID)
}
