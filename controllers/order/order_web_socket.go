package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/logger"
	"github.com/junaidrashid-git/shop-api/middleware"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type OrderEvent struct {
	Type  string             `json:"type"`
	Order response.OrderView `json:"order"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans order events out to each user's open websocket connections.
type Hub struct {
	mu       sync.Mutex
	clients  map[uint]map[*wsClient]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// GET /orders/ws
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn(c.Request.Context(), h.log, "websocket upgrade failed", zap.Error(err))
			return
		}

		client := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
		h.subscribe(userID, client)
		go h.writeLoop(client)

		// clients only listen; reading detects the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.unsubscribe(userID, client)
	}
}

func (h *Hub) subscribe(userID uint, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*wsClient]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) unsubscribe(userID uint, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := subs[client]; !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.clients, userID)
	}
	close(client.send)
}

func (h *Hub) writeLoop(client *wsClient) {
	defer client.conn.Close()
	for msg := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	client.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Publish queues payload for every connection of userID. A connection whose
// buffer is full misses the message.
func (h *Hub) Publish(userID uint, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			h.log.Warn("dropping order event for slow websocket client", zap.Uint("user_id", userID))
		}
	}
}

func (h *Hub) NotifyOrder(userID uint, order response.OrderView) {
	data, err := json.Marshal(OrderEvent{Type: "order", Order: order})
	if err != nil {
		h.log.Error("failed to encode order event", zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}
	h.Publish(userID, data)
}

func (h *Hub) Subscribers(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Close ends every open subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, subs := range h.clients {
		for client := range subs {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}
