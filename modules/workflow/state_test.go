package workflow

import (
	"errors"
	"testing"
	"time"

	"showroom-scene-server/modules/catalog"
	"showroom-scene-server/modules/common/model"
)

func TestStoreCreateDefaults(t *testing.T) {
	store := NewStore()
	state := store.Create()

	if state.SessionID == "" {
		t.Fatal("session id must be assigned")
	}
	if state.Step != model.StepWorkflowSelection {
		t.Errorf("new sessions start at workflow selection, got %q", state.Step)
	}
	if state.SceneStyle != catalog.DefaultStyle() {
		t.Errorf("scene style should default to %q, got %q", catalog.DefaultStyle(), state.SceneStyle)
	}
	if state.DetailShots == nil || state.SpecSheets == nil {
		t.Error("asset maps must be initialized")
	}
}

func TestStoreGetUnknownSession(t *testing.T) {
	store := NewStore()
	if _, err := store.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestStoreUpdateReturnsSnapshot(t *testing.T) {
	store := NewStore()
	created := store.Create()

	snap, err := store.Update(created.SessionID, func(s *model.WorkflowState) error {
		s.Products = append(s.Products, model.Product{ID: "product-1", Name: "Tub"})
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// snapshot 변경이 저장소에 새어 들어가면 안 된다
	snap.Products[0].Name = "Mutated"
	snap.DetailShots["product-1"] = []model.SeedImage{{Base64: "x", MimeType: "image/png"}}

	fresh, err := store.Get(created.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Products[0].Name != "Tub" {
		t.Error("snapshot mutation leaked into the store")
	}
	if len(fresh.DetailShots) != 0 {
		t.Error("snapshot map mutation leaked into the store")
	}
}

func TestStoreUpdateErrorDiscardsNothing(t *testing.T) {
	store := NewStore()
	created := store.Create()

	_, err := store.Update(created.SessionID, func(s *model.WorkflowState) error {
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if _, getErr := store.Get(created.SessionID); getErr != nil {
		t.Error("failed update must not remove the session")
	}
}

func TestStoreCleanupExpired(t *testing.T) {
	store := NewStore()
	old := store.Create()
	fresh := store.Create()

	store.mu.Lock()
	store.sessions[old.SessionID].UpdatedAt = time.Now().Add(-48 * time.Hour)
	store.mu.Unlock()

	store.cleanupExpired(24 * time.Hour)

	if _, err := store.Get(old.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expired session should be removed")
	}
	if _, err := store.Get(fresh.SessionID); err != nil {
		t.Error("active session should survive cleanup")
	}
	if store.Count() != 1 {
		t.Errorf("got %d sessions, want 1", store.Count())
	}
}

func TestCloneStateDeepCopiesPointers(t *testing.T) {
	idx := 1
	src := "data:image/png;base64,aW1n"
	original := newState("s")
	original.RoomScene = &model.SeedImage{Base64: "room", MimeType: "image/png"}
	original.RegeneratingIndex = &idx
	original.Variations = []model.GeneratedVariation{{Index: 0, Src: &src, Title: "A"}}
	original.SpecSheets["product-1"] = &model.SpecDocument{Base64: "spec", MimeType: "application/pdf", Name: "spec.pdf"}

	clone := cloneState(original)

	if clone.RoomScene == original.RoomScene {
		t.Error("room scene pointer must be copied")
	}
	if clone.RegeneratingIndex == original.RegeneratingIndex {
		t.Error("regenerating index pointer must be copied")
	}
	if clone.Variations[0].Src == original.Variations[0].Src {
		t.Error("variation src pointer must be copied")
	}
	if clone.SpecSheets["product-1"] == original.SpecSheets["product-1"] {
		t.Error("spec sheet pointer must be copied")
	}
}
