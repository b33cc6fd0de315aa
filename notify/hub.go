package notify

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

const writeTimeout = 5 * time.Second

// subscriber serializes writes; gorilla connections allow one writer at a time.
type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) write(messageType int, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(messageType, payload)
}

// Hub holds the WebSocket connections of every editor and delivers each
// notification to the connections subscribed to its editor.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]*subscriber
}

// NewHub creates a new notify hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*websocket.Conn]*subscriber),
	}
}

// Register subscribes conn to the events of editorId.
func (h *Hub) Register(editorId string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.conns[editorId]
	if subs == nil {
		subs = make(map[*websocket.Conn]*subscriber)
		h.conns[editorId] = subs
	}
	subs[conn] = &subscriber{conn: conn}
}

// Unregister removes conn from editorId.
func (h *Hub) Unregister(editorId string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.conns[editorId]
	delete(subs, conn)
	if len(subs) == 0 {
		delete(h.conns, editorId)
	}
}

// Subscribers returns the number of connections listening to editorId.
func (h *Hub) Subscribers(editorId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[editorId])
}

// Broadcast sends the notification as JSON to the subscribers of its editor.
// Peers that went away are dropped silently.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil || notification.EditorId == "" {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Errorf("[Notify] Failed to serialize %s notification: %v", notification.Type, err)
		return
	}

	for _, sub := range h.snapshot(notification.EditorId) {
		if err := sub.write(websocket.TextMessage, payload); err != nil {
			tool.DefaultLogger.Debugf("[Notify] dropping subscriber of %s: %v", notification.EditorId, err)
			h.Unregister(notification.EditorId, sub.conn)
			_ = sub.conn.Close()
		}
	}
}

// CloseEditor sends a close frame to every subscriber of editorId and forgets them.
// Errors are expected here: the peer is usually tearing down too.
func (h *Hub) CloseEditor(editorId string) {
	subs := h.snapshot(editorId)
	h.mu.Lock()
	delete(h.conns, editorId)
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "editor destroyed")
	for _, sub := range subs {
		if err := sub.write(websocket.CloseMessage, msg); err != nil {
			tool.DefaultLogger.Debugf("[Notify] close frame to %s subscriber: %v", editorId, err)
		}
		_ = sub.conn.Close()
	}
}

func (h *Hub) snapshot(editorId string) []*subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subs := make([]*subscriber, 0, len(h.conns[editorId]))
	for _, s := range h.conns[editorId] {
		subs = append(subs, s)
	}
	return subs
}
