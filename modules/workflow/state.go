package workflow

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"showroom-scene-server/modules/catalog"
	"showroom-scene-server/modules/common/model"
)

var (
	// ErrSessionNotFound - 세션 없음
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionBusy - 생성 작업 진행 중이라 변경 불가
	ErrSessionBusy = errors.New("another operation is already in progress for this session")
)

// Store - 세션별 워크플로우 상태 저장소 (메모리)
// 모든 변경은 Update를 통해서만 이루어지고, 외부에는 항상 snapshot을 반환한다
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*model.WorkflowState
}

// NewStore - 저장소 생성
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*model.WorkflowState),
	}
}

// newState - 초기 상태
func newState(sessionID string) *model.WorkflowState {
	now := time.Now()
	return &model.WorkflowState{
		SessionID:   sessionID,
		Step:        model.StepWorkflowSelection,
		Products:    []model.Product{},
		SelectedIDs: []string{},
		DetailShots: make(map[string][]model.SeedImage),
		SpecSheets:  make(map[string]*model.SpecDocument),
		SceneStyle:  catalog.DefaultStyle(),
		Variations:  []model.GeneratedVariation{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Create - 새 세션 생성
func (s *Store) Create() *model.WorkflowState {
	sessionID := uuid.New().String()
	state := newState(sessionID)

	s.mu.Lock()
	s.sessions[sessionID] = state
	s.mu.Unlock()

	log.Printf("🆕 [Workflow] Session created: %s", sessionID)
	return cloneState(state)
}

// Get - 세션 snapshot 조회
func (s *Store) Get(sessionID string) (*model.WorkflowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneState(state), nil
}

// Update - 세션 상태 변경 funnel. fn이 에러를 반환하면 변경은 버려진다
func (s *Store) Update(sessionID string, fn func(*model.WorkflowState) error) (*model.WorkflowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := fn(state); err != nil {
		return nil, err
	}

	state.UpdatedAt = time.Now()
	return cloneState(state), nil
}

// Delete - 세션 삭제
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	log.Printf("🗑️ [Workflow] Session deleted: %s", sessionID)
}

// Count - 현재 세션 수
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartCleanupRoutine - 만료 세션 정리 루프 시작
func (s *Store) StartCleanupRoutine(ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			s.cleanupExpired(ttl)
		}
	}()
	log.Printf("🧹 [Workflow] Session cleanup routine started (TTL: %s)", ttl)
}

// cleanupExpired - TTL 초과 세션 제거
func (s *Store) cleanupExpired(ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, state := range s.sessions {
		if state.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 [Workflow] Cleaned up %d expired sessions (%d remaining)", removed, len(s.sessions))
	}
}

// cloneState - 방어적 deep copy
func cloneState(state *model.WorkflowState) *model.WorkflowState {
	out := *state

	out.Products = append([]model.Product(nil), state.Products...)
	out.SelectedIDs = append([]string(nil), state.SelectedIDs...)
	out.Playbook = append([]model.CameraAngle(nil), state.Playbook...)

	out.Variations = make([]model.GeneratedVariation, len(state.Variations))
	for i, v := range state.Variations {
		out.Variations[i] = v
		if v.Src != nil {
			src := *v.Src
			out.Variations[i].Src = &src
		}
	}

	if state.RoomScene != nil {
		scene := *state.RoomScene
		out.RoomScene = &scene
	}

	out.DetailShots = make(map[string][]model.SeedImage, len(state.DetailShots))
	for id, shots := range state.DetailShots {
		out.DetailShots[id] = append([]model.SeedImage(nil), shots...)
	}

	out.SpecSheets = make(map[string]*model.SpecDocument, len(state.SpecSheets))
	for id, doc := range state.SpecSheets {
		if doc != nil {
			d := *doc
			out.SpecSheets[id] = &d
		}
	}

	if state.RegeneratingIndex != nil {
		idx := *state.RegeneratingIndex
		out.RegeneratingIndex = &idx
	}

	return &out
}
