package notify

import (
	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// Dispatcher fans a notification out to the websocket hub and, when a socket
// path is configured, to the host process listening on it.
type Dispatcher struct {
	Hub        *Hub
	SocketPath string
}

func NewDispatcher(hub *Hub, socketPath string) *Dispatcher {
	return &Dispatcher{Hub: hub, SocketPath: socketPath}
}

// Notify implements editor.Notifier.
func (d *Dispatcher) Notify(n *types.Notification) {
	if n == nil {
		return
	}
	if d.Hub != nil {
		d.Hub.Broadcast(n)
		if n.Type == types.NotifyTypeDestroy {
			d.Hub.CloseEditor(n.EditorId)
		}
	}
	if d.SocketPath != "" && UseNotify {
		// send asynchronously to avoid blocking the chunk round trip
		go func(n *types.Notification) {
			if err := SendNotification(n, d.SocketPath); err != nil {
				tool.DefaultLogger.Errorf("[Notify] Failed to send %s notification: %v", n.Type, err)
			}
		}(n)
	}
}
