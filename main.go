package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"showroom-scene-server/modules/common/config"
	"showroom-scene-server/modules/gateway"
	"showroom-scene-server/modules/workflow"
)

func main() {
	log.Println("🚀 Starting Showroom Scene Server...")

	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// 세션 저장소 + 만료 정리
	store := workflow.NewStore()
	store.StartCleanupRoutine(time.Duration(cfg.SessionTTLHours) * time.Hour)

	// 상태 broadcast 허브
	hub := workflow.NewHub(store)

	// Gemini 게이트웨이 + 오케스트레이터
	gw := gateway.NewService()
	orc := workflow.NewOrchestrator(store, gw, hub, cfg)

	// 라우팅
	router := mux.NewRouter()
	handler := workflow.NewHandler(orc, hub)
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", handleHealth(store)).Methods("GET")

	addr := ":" + cfg.Port
	log.Printf("🌐 Server listening on %s", addr)
	log.Printf("   REST:      http://localhost%s/api/workflow/sessions", addr)
	log.Printf("   WebSocket: ws://localhost%s/ws/workflow/{sessionId}", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// handleHealth - 헬스 체크
func handleHealth(store *workflow.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"sessions": store.Count(),
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
