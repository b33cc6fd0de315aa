package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"net"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

// MaxSocketValueLen caps document content forwarded to the host socket;
// the full value is only pushed to websocket subscribers.
const MaxSocketValueLen = 1024

var (
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second
	UseNotify         = true
)

// SetUseNotify sets whether to forward notifications to the host socket
func SetUseNotify(use bool) {
	UseNotify = use
}

// SendNotification sends notification via Unix Domain Socket: a 4 byte
// little-endian length prefix followed by the JSON payload.
func SendNotification(notification *types.Notification, socketPath string) error {
	if !UseNotify || socketPath == "" {
		return nil
	}

	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s (is the host listening?)", socketPath)
	}

	var payload []byte
	var err error
	if notification != nil {
		payload, err = sonic.Marshal(forSocket(notification))
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %w", err)
		}
	} else {
		payload = []byte("{}")
	}

	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %w", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload to Unix socket: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %w", err)
	}

	var response map[string]any
	if n > 0 {
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("server returned error: %s", errMsg)
		}
	}

	if notification != nil {
		tool.DefaultLogger.Debugf("[UnixSocket] Notification sent: %s (editor %s)", notification.Type, notification.EditorId)
	}
	return nil
}

// forSocket returns a copy of n whose document fields are cut to MaxSocketValueLen.
func forSocket(n *types.Notification) *types.Notification {
	out := *n
	if n.Data == nil {
		return &out
	}
	out.Data = maps.Clone(n.Data)
	for _, key := range []string{"value", "content"} {
		if s, ok := out.Data[key].(string); ok && len(s) > MaxSocketValueLen {
			out.Data[key] = truncateUTF8(s, MaxSocketValueLen)
			out.Data["truncated"] = true
		}
	}
	return &out
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
