// Package websocket implements the stock alert hub: a small broadcast
// server that pushes low-stock and deduction events to connected UI clients
// (POS screens, manager dashboards). Publishing never blocks the engine.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"PosInventory/app/logger"
	"PosInventory/app/models"
)

// MessageType represents the type of hub message
type MessageType string

const (
	TypeLowStock  MessageType = "low_stock"
	TypeDeduction MessageType = "deduction"
	TypeHeartbeat MessageType = "heartbeat"
)

// Message is one broadcast frame
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// LowStockAlert is the payload for low-stock broadcasts
type LowStockAlert struct {
	InventoryItemID uint    `json:"inventory_item_id"`
	Name            string  `json:"name"`
	CurrentStock    float64 `json:"current_stock"`
	MinStock        float64 `json:"min_stock"`
	Unit            string  `json:"unit"`
}

// client is one connected subscriber
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is the broadcast server
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

// NewHub creates a new alert hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Clients live on the restaurant LAN
				return true
			},
		},
		log: logger.For("alert_hub"),
	}
}

// Run processes register/unregister/broadcast events; call in a goroutine
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.log.Debug().Int("clients", len(h.clients)).Msg("client connected")
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case payload := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Slow client; drop the frame rather than stall the hub
				}
			}
			h.mu.RUnlock()
		}
	}
}

// HandleWS upgrades an HTTP request into a hub subscription
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

// PublishLowStock broadcasts a low-stock alert. Implements the deduction
// engine's StockAlertPublisher; never blocks.
func (h *Hub) PublishLowStock(item models.InventoryItem, newStock float64) {
	h.publish(TypeLowStock, LowStockAlert{
		InventoryItemID: item.ID,
		Name:            item.Name,
		CurrentStock:    newStock,
		MinStock:        item.MinStock,
		Unit:            item.StorageUnit,
	})
}

// PublishDeduction broadcasts a completed deduction summary
func (h *Hub) PublishDeduction(data interface{}) {
	h.publish(TypeDeduction, data)
}

func (h *Hub) publish(msgType MessageType, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Warn().Err(err).Str("type", string(msgType)).Msg("failed to marshal alert payload")
		return
	}
	payload, err := json.Marshal(Message{Type: msgType, Timestamp: time.Now().UTC(), Data: raw})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("type", string(msgType)).Msg("alert buffer full, frame dropped")
	}
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Subscribers only listen; any read error tears the client down
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
