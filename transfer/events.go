package transfer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// Events is a subscription to the notifications of one editor.
type Events struct {
	conn *websocket.Conn
	C    <-chan types.Notification

	done      chan struct{}
	closeOnce sync.Once
}

// Subscribe opens the notify websocket of editorId. C is closed when the
// bridge closes the connection, e.g. after the editor was destroyed.
func Subscribe(ctx context.Context, baseURL, editorId string) (*Events, error) {
	target := strings.TrimRight(baseURL, "/") + "/api/editor/v1/" + url.PathEscape(editorId) + "/notify-ws"
	switch {
	case strings.HasPrefix(target, "https://"):
		target = "wss://" + strings.TrimPrefix(target, "https://")
	case strings.HasPrefix(target, "http://"):
		target = "ws://" + strings.TrimPrefix(target, "http://")
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, &StatusError{Code: resp.StatusCode, Message: "notify subscription refused"}
		}
		return nil, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}

	ch := make(chan types.Notification, 16)
	ev := &Events{conn: conn, C: ch, done: make(chan struct{})}
	go ev.read(ch)
	return ev, nil
}

func (ev *Events) read(ch chan<- types.Notification) {
	defer close(ch)
	for {
		_, data, err := ev.conn.ReadMessage()
		if err != nil {
			return
		}
		var n types.Notification
		if err := sonic.Unmarshal(data, &n); err != nil {
			tool.DefaultLogger.Debugf("[Transfer] ignoring undecodable notification: %v", err)
			continue
		}
		select {
		case <-ev.done:
			return
		default:
		}
		select {
		case ch <- n:
		case <-ev.done:
			return
		}
	}
}

// Close ends the subscription. Errors of an already closed peer are swallowed.
func (ev *Events) Close() {
	ev.closeOnce.Do(func() {
		close(ev.done)
		_ = ev.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = ev.conn.Close()
	})
}
