package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"showroom-scene-server/modules/catalog"
	"showroom-scene-server/modules/common/config"
	"showroom-scene-server/modules/common/fallback"
	"showroom-scene-server/modules/common/model"
	"showroom-scene-server/modules/common/utils"
	"showroom-scene-server/modules/prompt"
)

// WorkflowMode - 시작 경로
type WorkflowMode string

const (
	ModeScene   WorkflowMode = "scene"   // 룸 씬에서 시작
	ModeProduct WorkflowMode = "product" // 제품 이미지에서 시작
)

// Generator - 생성 게이트웨이 인터페이스 (테스트에서 fake로 교체)
type Generator interface {
	IdentifyProducts(ctx context.Context, scene model.SeedImage) ([]model.Product, error)
	GenerateMasterScene(ctx context.Context, roomScene *model.SeedImage, products []model.ProductAssets, style string) (string, error)
	GenerateVariation(ctx context.Context, masterScene model.SeedImage, angle model.CameraAngle, productNames string) (string, error)
	GenerateVariations(ctx context.Context, masterScene model.SeedImage, angles []model.CameraAngle, productNames string) []model.GeneratedVariation
}

// ValidationError - 사용자 입력 오류. 메시지가 곧 노출 문구
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErr(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ProductUpdate - 제품 편집 요청 필드 (nil = 변경 없음)
type ProductUpdate struct {
	Name       *string       `json:"name"`
	Type       *string       `json:"type"`
	Material   *model.Choice `json:"material"`
	Finish     *model.Choice `json:"finish"`
	Dimensions *string       `json:"dimensions"`
}

// Orchestrator - 워크플로우 단계 전이 + 생성 호출 조정
type Orchestrator struct {
	store *Store
	gw    Generator
	hub   *Hub
	cfg   *config.Config
}

// NewOrchestrator - 오케스트레이터 생성. hub는 nil 허용 (broadcast 생략)
func NewOrchestrator(store *Store, gw Generator, hub *Hub, cfg *config.Config) *Orchestrator {
	return &Orchestrator{store: store, gw: gw, hub: hub, cfg: cfg}
}

// CreateSession - 새 세션 시작
func (o *Orchestrator) CreateSession() *model.WorkflowState {
	return o.store.Create()
}

// GetSession - 세션 snapshot 조회
func (o *Orchestrator) GetSession(sessionID string) (*model.WorkflowState, error) {
	return o.store.Get(sessionID)
}

// DeleteSession - 세션 종료
func (o *Orchestrator) DeleteSession(sessionID string) {
	o.store.Delete(sessionID)
}

// broadcast - 연결된 클라이언트에 상태 전파
func (o *Orchestrator) broadcast(state *model.WorkflowState) {
	if o.hub != nil && state != nil {
		o.hub.BroadcastState(state)
	}
}

// update - 변경 + broadcast 공통 경로
func (o *Orchestrator) update(sessionID string, fn func(*model.WorkflowState) error) (*model.WorkflowState, error) {
	state, err := o.store.Update(sessionID, fn)
	if err != nil {
		return nil, err
	}
	o.broadcast(state)
	return state, nil
}

// requireIdle - 생성 진행 중이면 변경 거부
func requireIdle(s *model.WorkflowState) error {
	if s.IsLoading {
		return ErrSessionBusy
	}
	return nil
}

// softReset - 워크플로우 전환 시 단계만 남기고 전부 초기화
func softReset(s *model.WorkflowState) {
	s.RoomScene = nil
	s.Products = []model.Product{}
	s.SelectedIDs = []string{}
	s.DetailShots = make(map[string][]model.SeedImage)
	s.SpecSheets = make(map[string]*model.SpecDocument)
	s.MasterScene = ""
	s.Playbook = nil
	s.Variations = []model.GeneratedVariation{}
	s.ErrorMessage = ""
	s.IsLoading = false
	s.LoadingMessage = ""
	s.RegeneratingIndex = nil
	s.SceneStyle = catalog.DefaultStyle()
	s.CustomSceneStyle = ""
}

// directProductID - 직접 등록 제품 id (밀리초 타임스탬프)
// 같은 밀리초에 연속 추가되면 접미사로 충돌을 피한다
func directProductID(s *model.WorkflowState) string {
	base := fmt.Sprintf("product-%d", time.Now().UnixMilli())
	id := base
	for i := 2; s.ProductByID(id) != nil; i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	return id
}

// SelectWorkflow - 시작 경로 선택. 기존 진행 내용은 초기화된다
func (o *Orchestrator) SelectWorkflow(sessionID string, mode WorkflowMode) (*model.WorkflowState, error) {
	if mode != ModeScene && mode != ModeProduct {
		return nil, validationErr("Unknown workflow mode %q.", string(mode))
	}

	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}

		softReset(s)

		if mode == ModeScene {
			s.Step = model.StepSceneUpload
			return nil
		}

		// product-first 경로: 빈 제품 하나를 만들어 선택해 둔다
		initial := model.Product{
			ID:       directProductID(s),
			Material: model.Unspecified(),
			Finish:   model.Unspecified(),
		}
		s.Products = []model.Product{initial}
		s.SelectedIDs = []string{initial.ID}
		s.Step = model.StepDirectProductUpload
		return nil
	})
}

// UploadRoomScene - 룸 씬 업로드 후 제품 식별까지 수행
// 식별 실패 시 scene_upload로 되돌리고 에러 메시지를 남긴다 (씬은 유지)
func (o *Orchestrator) UploadRoomScene(ctx context.Context, sessionID string, scene model.SeedImage) (*model.WorkflowState, error) {
	_, err := o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepSceneUpload {
			return validationErr("A room scene can only be uploaded at the scene upload step.")
		}

		s.RoomScene = &scene
		s.Step = model.StepProductIdentification
		s.ErrorMessage = ""
		s.IsLoading = true
		s.LoadingMessage = "AI is identifying products in your scene..."
		return nil
	})
	if err != nil {
		return nil, err
	}

	products, genErr := o.gw.IdentifyProducts(ctx, scene)

	return o.update(sessionID, func(s *model.WorkflowState) error {
		s.IsLoading = false
		s.LoadingMessage = ""

		if genErr != nil {
			s.ErrorMessage = fallback.ErrorMessage(genErr, "Failed to identify products.")
			s.Step = model.StepSceneUpload
			return nil
		}

		s.Products = products
		s.SelectedIDs = []string{}
		s.DetailShots = make(map[string][]model.SeedImage)
		s.SpecSheets = make(map[string]*model.SpecDocument)
		s.Step = model.StepProductSelection
		return nil
	})
}

// ToggleProduct - 제품 선택 토글
func (o *Orchestrator) ToggleProduct(sessionID, productID string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepProductSelection {
			return validationErr("Products can only be selected at the product selection step.")
		}
		if s.ProductByID(productID) == nil {
			return validationErr("Unknown product %q.", productID)
		}

		s.ToggleSelection(productID)
		return nil
	})
}

// ConfirmSelection - 선택 확정 후 상세컷 업로드 단계로
func (o *Orchestrator) ConfirmSelection(sessionID string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepProductSelection {
			return validationErr("Selection can only be confirmed at the product selection step.")
		}
		if len(s.SelectedIDs) == 0 {
			return validationErr("Please select at least one product to continue.")
		}

		s.Step = model.StepDetailUpload
		s.ErrorMessage = ""
		return nil
	})
}

// AddProduct - 직접 등록 제품 추가 (자동 선택)
func (o *Orchestrator) AddProduct(sessionID string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepDirectProductUpload {
			return validationErr("Products can only be added at the product upload step.")
		}

		p := model.Product{
			ID:       directProductID(s),
			Material: model.Unspecified(),
			Finish:   model.Unspecified(),
		}
		s.Products = append(s.Products, p)
		s.SelectedIDs = append(s.SelectedIDs, p.ID)
		return nil
	})
}

// UpdateProduct - 제품 필드 편집. material/finish는 카탈로그 기준으로 정규화
func (o *Orchestrator) UpdateProduct(sessionID, productID string, upd ProductUpdate) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepDirectProductUpload && s.Step != model.StepDetailUpload {
			return validationErr("Products can only be edited while preparing detail shots.")
		}

		p := s.ProductByID(productID)
		if p == nil {
			return validationErr("Unknown product %q.", productID)
		}

		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Type != nil {
			p.Type = *upd.Type
		}
		if upd.Material != nil {
			p.Material = catalog.NormalizeMaterial(*upd.Material)
		}
		if upd.Finish != nil {
			p.Finish = catalog.NormalizeFinish(*upd.Finish)
		}
		if upd.Dimensions != nil {
			p.Dimensions = *upd.Dimensions
		}
		return nil
	})
}

// RemoveProduct - 제품 제거 + 연관 자산 cascade 삭제
// 직접 등록 경로에서는 최소 한 개의 제품이 남아야 한다
func (o *Orchestrator) RemoveProduct(sessionID, productID string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepDirectProductUpload && s.Step != model.StepDetailUpload {
			return validationErr("Products can only be removed while preparing detail shots.")
		}
		if s.ProductByID(productID) == nil {
			return validationErr("Unknown product %q.", productID)
		}
		if s.RoomScene == nil && len(s.Products) <= 1 {
			return validationErr("At least one product is required.")
		}

		s.RemoveProduct(productID)
		return nil
	})
}

// SetDetailShots - 제품 상세컷 교체 (빈 목록 = 제거)
func (o *Orchestrator) SetDetailShots(sessionID, productID string, shots []model.SeedImage) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepDirectProductUpload && s.Step != model.StepDetailUpload {
			return validationErr("Detail shots can only be uploaded while preparing detail shots.")
		}
		if s.ProductByID(productID) == nil {
			return validationErr("Unknown product %q.", productID)
		}

		if len(shots) == 0 {
			delete(s.DetailShots, productID)
			return nil
		}
		s.DetailShots[productID] = shots
		return nil
	})
}

// SetSpecSheet - 제품 스펙 시트 첨부
func (o *Orchestrator) SetSpecSheet(sessionID, productID string, doc model.SpecDocument) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepDirectProductUpload && s.Step != model.StepDetailUpload {
			return validationErr("Specification sheets can only be attached while preparing detail shots.")
		}
		if s.ProductByID(productID) == nil {
			return validationErr("Unknown product %q.", productID)
		}

		s.SpecSheets[productID] = &doc
		return nil
	})
}

// ClearSpecSheet - 제품 스펙 시트 제거
func (o *Orchestrator) ClearSpecSheet(sessionID, productID string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepDirectProductUpload && s.Step != model.StepDetailUpload {
			return validationErr("Specification sheets can only be changed while preparing detail shots.")
		}

		delete(s.SpecSheets, productID)
		return nil
	})
}

// SetStyle - 씬 스타일 설정. "Custom" 선택 시 직접 입력 값을 함께 보관
func (o *Orchestrator) SetStyle(sessionID, style, customStyle string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if style != catalog.CustomOption && !catalog.IsKnownStyle(style) {
			return validationErr("Unknown style %q.", style)
		}

		s.SceneStyle = style
		s.CustomSceneStyle = customStyle
		return nil
	})
}

// masterRevertStep - 마스터 씬 생성 실패 시 되돌아갈 단계
func masterRevertStep(s *model.WorkflowState) model.WorkflowStep {
	if s.RoomScene != nil {
		return model.StepDetailUpload
	}
	return model.StepDirectProductUpload
}

// GenerateMasterScene - 마스터 씬 생성 (scene_approval에서의 재생성 포함)
// 스타일 미입력은 생성 호출 없이 바로 되돌린다
func (o *Orchestrator) GenerateMasterScene(ctx context.Context, sessionID string) (*model.WorkflowState, error) {
	var (
		style     string
		roomScene *model.SeedImage
		products  []model.ProductAssets
	)

	busy, err := o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		switch s.Step {
		case model.StepDetailUpload, model.StepDirectProductUpload, model.StepSceneApproval:
		default:
			return validationErr("A master scene cannot be generated at this step.")
		}

		s.ErrorMessage = ""

		resolved, styleErr := catalog.ResolveStyle(s.SceneStyle, s.CustomSceneStyle)
		if styleErr != nil {
			s.ErrorMessage = styleErr.Error()
			s.Step = masterRevertStep(s)
			return nil
		}

		selected := s.SelectedWithAssets()
		if len(selected) == 0 {
			s.ErrorMessage = "Please select at least one product to continue."
			s.Step = masterRevertStep(s)
			return nil
		}
		if s.RoomScene == nil {
			for _, p := range selected {
				if len(p.Shots) == 0 {
					s.ErrorMessage = "Please upload at least one detail shot for each product."
					s.Step = masterRevertStep(s)
					return nil
				}
			}
		}

		style = resolved
		roomScene = s.RoomScene
		products = selected
		s.Step = model.StepMasterSceneGeneration
		s.IsLoading = true
		s.LoadingMessage = "Generating new room concept..."
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !busy.IsLoading {
		// 검증 실패로 이미 되돌려진 상태
		return busy, nil
	}

	masterScene, genErr := o.gw.GenerateMasterScene(ctx, roomScene, products, style)

	return o.update(sessionID, func(s *model.WorkflowState) error {
		s.IsLoading = false
		s.LoadingMessage = ""

		if genErr != nil {
			s.ErrorMessage = fallback.ErrorMessage(genErr, "Failed to generate master scene.")
			s.Step = masterRevertStep(s)
			return nil
		}

		s.MasterScene = masterScene
		s.Step = model.StepSceneApproval
		return nil
	})
}

// ApproveMasterScene - 마스터 씬 승인 후 앵글별 variation 배치 생성
// 플레이북은 승인 시점에 고정되고, 개별 실패는 Src=nil로 남는다
func (o *Orchestrator) ApproveMasterScene(ctx context.Context, sessionID string) (*model.WorkflowState, error) {
	var (
		master       model.SeedImage
		angles       []model.CameraAngle
		productNames string
	)

	busy, err := o.update(sessionID, func(s *model.WorkflowState) error {
		if err := requireIdle(s); err != nil {
			return err
		}
		if s.Step != model.StepSceneApproval {
			return validationErr("Variations can only be generated after approving a master scene.")
		}
		if s.MasterScene == "" {
			return validationErr("A master scene is required to generate variations.")
		}

		seed, parseErr := utils.ParseDataURL(s.MasterScene)
		if parseErr != nil {
			s.ErrorMessage = "Could not determine MIME type of master scene image."
			return nil
		}

		selected := s.SelectedWithAssets()
		productType := ""
		if len(selected) > 0 {
			productType = selected[0].Product.Type
		}

		master = seed
		angles = catalog.SelectPlaybook(productType, o.cfg.CategoryPlaybooks)
		productNames = prompt.ProductNameSummary(selected)

		s.Playbook = angles
		s.Variations = []model.GeneratedVariation{}
		s.ErrorMessage = ""
		s.Step = model.StepGenerating
		s.IsLoading = true
		s.LoadingMessage = "Generating your final scenes..."

		log.Printf("🎬 [Workflow] Session %s: generating %d variations (playbook: %s)",
			sessionID, len(angles), catalog.PlaybookCategory(productType, o.cfg.CategoryPlaybooks))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !busy.IsLoading {
		// data URL 파싱 실패 - scene_approval 유지
		return busy, nil
	}

	results := o.gw.GenerateVariations(ctx, master, angles, productNames)

	return o.update(sessionID, func(s *model.WorkflowState) error {
		s.IsLoading = false
		s.LoadingMessage = ""
		s.Variations = results
		s.Step = model.StepResults
		return nil
	})
}

// RegenerateVariation - 단일 variation 재생성
// 이미 재생성 중이면 조용히 no-op. 실패해도 단계와 기존 결과는 유지된다
func (o *Orchestrator) RegenerateVariation(ctx context.Context, sessionID string, index int) (*model.WorkflowState, error) {
	var (
		master       model.SeedImage
		angle        model.CameraAngle
		productNames string
		started      bool
	)

	busy, err := o.update(sessionID, func(s *model.WorkflowState) error {
		if s.Step != model.StepResults {
			return validationErr("Variations can only be regenerated from the results step.")
		}
		if s.RegeneratingIndex != nil {
			return nil // 진행 중 - no-op
		}
		if index < 0 || index >= len(s.Variations) || index >= len(s.Playbook) {
			return validationErr("Unknown variation index %d.", index)
		}
		if s.MasterScene == "" {
			s.ErrorMessage = "Cannot regenerate without a master scene."
			return nil
		}

		seed, parseErr := utils.ParseDataURL(s.MasterScene)
		if parseErr != nil {
			s.ErrorMessage = "Could not determine MIME type of master scene image."
			return nil
		}

		master = seed
		angle = s.Playbook[index]
		productNames = prompt.ProductNameSummary(s.SelectedWithAssets())
		started = true

		idx := index
		s.RegeneratingIndex = &idx
		s.ErrorMessage = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !started {
		return busy, nil
	}

	src, genErr := o.gw.GenerateVariation(ctx, master, angle, productNames)

	return o.update(sessionID, func(s *model.WorkflowState) error {
		s.RegeneratingIndex = nil

		if genErr != nil {
			s.ErrorMessage = fallback.ErrorMessage(genErr, "Failed to regenerate image.")
			return nil
		}

		if index < len(s.Variations) {
			s.Variations[index].Src = &src
		}
		return nil
	})
}

// Reset - 전체 초기화. 세션은 유지하고 workflow_selection으로 돌아간다
func (o *Orchestrator) Reset(sessionID string) (*model.WorkflowState, error) {
	return o.update(sessionID, func(s *model.WorkflowState) error {
		softReset(s)
		s.Step = model.StepWorkflowSelection
		return nil
	})
}
