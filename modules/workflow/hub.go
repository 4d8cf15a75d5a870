package workflow

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"showroom-scene-server/modules/common/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 개발 환경에서 모든 origin 허용
	},
}

// stateEnvelope - 웹소켓으로 내보내는 상태 메시지
type stateEnvelope struct {
	Type  string               `json:"type"`
	State *model.WorkflowState `json:"state"`
}

// Client - 세션 하나를 구독하는 웹소켓 연결
type Client struct {
	hub       *Hub
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub - 세션별 웹소켓 클라이언트 관리 + 상태 broadcast
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
	store   *Store
}

// NewHub - 허브 생성
func NewHub(store *Store) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
		store:   store,
	}
}

// HandleWebSocket - GET /ws/workflow/{sessionId}
// 연결 직후 현재 상태 snapshot을 1회 전송한다
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	state, err := h.store.Get(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Hub] WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, 16),
	}
	h.register(client)

	log.Printf("🔌 [Hub] Client connected to session %s", sessionID)

	go client.writePump()
	go client.readPump()

	// 초기 snapshot
	if payload, err := json.Marshal(stateEnvelope{Type: "state", State: state}); err == nil {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// BroadcastState - 해당 세션의 모든 클라이언트에 상태 전파
// 버퍼가 가득 찬 느린 클라이언트는 끊는다
func (h *Hub) BroadcastState(state *model.WorkflowState) {
	payload, err := json.Marshal(stateEnvelope{Type: "state", State: state})
	if err != nil {
		log.Printf("❌ [Hub] Failed to marshal state: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[state.SessionID]))
	for c := range h.clients[state.SessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			h.unregister(c)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.sessionID] == nil {
		h.clients[c.sessionID] = make(map[*Client]bool)
	}
	h.clients[c.sessionID][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.sessionID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
			if len(set) == 0 {
				delete(h.clients, c.sessionID)
			}
		}
	}
}

// readPump - 클라이언트 수신 루프. 상태는 서버가 밀어주기만 하므로 메시지는 버린다
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
		log.Printf("🔌 [Hub] Client disconnected from session %s", c.sessionID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ [Hub] WebSocket read error: %v", err)
			}
			return
		}
	}
}

// writePump - 송신 루프 + ping keepalive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
