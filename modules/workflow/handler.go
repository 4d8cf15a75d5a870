package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"showroom-scene-server/modules/capture"
	"showroom-scene-server/modules/common/model"
	"showroom-scene-server/modules/common/utils"
)

// 에러 코드
const (
	codeValidation      = "VALIDATION_ERROR"
	codeSessionNotFound = "SESSION_NOT_FOUND"
	codeSessionBusy     = "SESSION_BUSY"
	codeInternal        = "INTERNAL_ERROR"
)

// response - 공통 응답 envelope
type response struct {
	Success      bool                 `json:"success"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	ErrorCode    string               `json:"errorCode,omitempty"`
	State        *model.WorkflowState `json:"state,omitempty"`
}

// Handler - 워크플로우 HTTP 핸들러
type Handler struct {
	orc *Orchestrator
	hub *Hub
}

// NewHandler - 핸들러 생성
func NewHandler(orc *Orchestrator, hub *Hub) *Handler {
	return &Handler{orc: orc, hub: hub}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/workflow/sessions", h.corsWrap(h.handleCreateSession)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}", h.corsWrap(h.handleGetSession)).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}", h.corsWrap(h.handleDeleteSession)).Methods("DELETE")

	r.HandleFunc("/api/workflow/sessions/{sessionId}/mode", h.corsWrap(h.handleSelectMode)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/scene", h.corsWrap(h.handleUploadScene)).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/workflow/sessions/{sessionId}/selection/toggle", h.corsWrap(h.handleToggleProduct)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/selection/confirm", h.corsWrap(h.handleConfirmSelection)).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/workflow/sessions/{sessionId}/products", h.corsWrap(h.handleAddProduct)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/products/{productId}", h.corsWrap(h.handleUpdateProduct)).Methods("PATCH", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/products/{productId}", h.corsWrap(h.handleRemoveProduct)).Methods("DELETE")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/products/{productId}/shots", h.corsWrap(h.handleUploadShots)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/products/{productId}/spec", h.corsWrap(h.handleUploadSpec)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/products/{productId}/spec", h.corsWrap(h.handleClearSpec)).Methods("DELETE")

	r.HandleFunc("/api/workflow/sessions/{sessionId}/style", h.corsWrap(h.handleSetStyle)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/master-scene", h.corsWrap(h.handleGenerateMasterScene)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/approve", h.corsWrap(h.handleApproveMasterScene)).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/workflow/sessions/{sessionId}/variations/{index}/regenerate", h.corsWrap(h.handleRegenerateVariation)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/workflow/sessions/{sessionId}/variations/{index}/download", h.corsWrap(h.handleDownloadVariation)).Methods("GET", "OPTIONS")

	r.HandleFunc("/api/workflow/sessions/{sessionId}/reset", h.corsWrap(h.handleReset)).Methods("POST", "OPTIONS")

	r.HandleFunc("/ws/workflow/{sessionId}", h.hub.HandleWebSocket).Methods("GET")
}

// corsWrap - 핸들러별 CORS 처리
func (h *Handler) corsWrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// writeState - 성공 응답
func writeState(w http.ResponseWriter, state *model.WorkflowState) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{Success: true, State: state})
}

// writeError - 에러 분류 → HTTP 상태 + 에러 코드
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := codeInternal
	message := "An unexpected error occurred."

	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
		code = codeValidation
		message = vErr.Error()
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
		code = codeSessionNotFound
		message = "Session not found. Please start a new session."
	case errors.Is(err, ErrSessionBusy):
		status = http.StatusConflict
		code = codeSessionBusy
		message = "Another operation is already in progress. Please wait for it to finish."
	default:
		log.Printf("❌ [Workflow] Unexpected handler error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, ErrorMessage: message, ErrorCode: code})
}

// writeValidation - capture 계층의 입력 오류
func writeValidation(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(response{Success: false, ErrorMessage: err.Error(), ErrorCode: codeValidation})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	state := h.orc.CreateSession()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response{Success: true, State: state})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.orc.GetSession(mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	h.orc.DeleteSession(mux.Vars(r)["sessionId"])
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{Success: true})
}

func (h *Handler) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, fmt.Errorf("Invalid request body."))
		return
	}

	state, err := h.orc.SelectWorkflow(mux.Vars(r)["sessionId"], WorkflowMode(req.Mode))
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleUploadScene(w http.ResponseWriter, r *http.Request) {
	scene, err := capture.ReadSeedImage(r, "image")
	if err != nil {
		writeValidation(w, err)
		return
	}

	state, err := h.orc.UploadRoomScene(r.Context(), mux.Vars(r)["sessionId"], scene)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleToggleProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, fmt.Errorf("Invalid request body."))
		return
	}

	state, err := h.orc.ToggleProduct(mux.Vars(r)["sessionId"], req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleConfirmSelection(w http.ResponseWriter, r *http.Request) {
	state, err := h.orc.ConfirmSelection(mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	state, err := h.orc.AddProduct(mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, fmt.Errorf("Invalid request body."))
		return
	}

	vars := mux.Vars(r)
	state, err := h.orc.UpdateProduct(vars["sessionId"], vars["productId"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, err := h.orc.RemoveProduct(vars["sessionId"], vars["productId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleUploadShots(w http.ResponseWriter, r *http.Request) {
	shots, err := capture.ReadSeedImages(r, "images")
	if err != nil {
		writeValidation(w, err)
		return
	}

	vars := mux.Vars(r)
	state, err := h.orc.SetDetailShots(vars["sessionId"], vars["productId"], shots)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleUploadSpec(w http.ResponseWriter, r *http.Request) {
	doc, err := capture.ReadSpecDocument(r, "file")
	if err != nil {
		writeValidation(w, err)
		return
	}

	vars := mux.Vars(r)
	state, err := h.orc.SetSpecSheet(vars["sessionId"], vars["productId"], doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleClearSpec(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, err := h.orc.ClearSpecSheet(vars["sessionId"], vars["productId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleSetStyle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Style       string `json:"style"`
		CustomStyle string `json:"customStyle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, fmt.Errorf("Invalid request body."))
		return
	}

	state, err := h.orc.SetStyle(mux.Vars(r)["sessionId"], req.Style, req.CustomStyle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleGenerateMasterScene(w http.ResponseWriter, r *http.Request) {
	state, err := h.orc.GenerateMasterScene(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleApproveMasterScene(w http.ResponseWriter, r *http.Request) {
	state, err := h.orc.ApproveMasterScene(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

func (h *Handler) handleRegenerateVariation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeValidation(w, fmt.Errorf("Invalid variation index."))
		return
	}

	state, err := h.orc.RegenerateVariation(r.Context(), vars["sessionId"], index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

// handleDownloadVariation - 생성 결과 다운로드
// ?format=webp이면 응답 시점에 메모리에서 변환한다 (저장 안 함)
func (h *Handler) handleDownloadVariation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeValidation(w, fmt.Errorf("Invalid variation index."))
		return
	}

	state, err := h.orc.GetSession(vars["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}

	if index < 0 || index >= len(state.Variations) {
		writeValidation(w, fmt.Errorf("Unknown variation index %d.", index))
		return
	}
	variation := state.Variations[index]
	if variation.Src == nil {
		writeValidation(w, fmt.Errorf("This variation has no image. Try regenerating it first."))
		return
	}

	seed, err := utils.ParseDataURL(*variation.Src)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := utils.DecodeSeedImage(seed)
	if err != nil {
		writeError(w, err)
		return
	}

	mimeType := seed.MimeType
	ext := extensionForMime(mimeType)

	if r.URL.Query().Get("format") == "webp" {
		converted, convErr := utils.ConvertToWebP(data, 80)
		if convErr != nil {
			writeError(w, convErr)
			return
		}
		data = converted
		mimeType = "image/webp"
		ext = "webp"
	}

	filename := fmt.Sprintf("scene-%d.%s", index+1, ext)
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	state, err := h.orc.Reset(mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, state)
}

// extensionForMime - 다운로드 파일명 확장자
func extensionForMime(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return "jpg"
	case strings.Contains(mimeType, "webp"):
		return "webp"
	default:
		return "png"
	}
}
