package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// HTTPTransport talks to one editor of a running bridge.
type HTTPTransport struct {
	baseURL  string
	editorId string
	client   *http.Client
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func NewHTTPTransport(baseURL, editorId string) *HTTPTransport {
	return &HTTPTransport{
		baseURL:  strings.TrimRight(baseURL, "/"),
		editorId: editorId,
		client:   tool.GetHttpClient(),
	}
}

// Setup creates a new editor on the bridge and returns a transport bound to it.
func Setup(ctx context.Context, baseURL string, request types.EditorSetupRequest) (*HTTPTransport, error) {
	t := NewHTTPTransport(baseURL, "")
	body, err := sonic.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setup request: %w", err)
	}
	var info types.EditorInfo
	if err := t.call(ctx, http.MethodPost, t.baseURL+"/api/editor/v1/setup", "application/json", body, &info); err != nil {
		return nil, err
	}
	t.editorId = info.EditorId
	tool.DefaultLogger.Infof("[Transfer] set up editor %s on %s", info.EditorId, t.baseURL)
	return t, nil
}

func (t *HTTPTransport) EditorID() string { return t.editorId }

func (t *HTTPTransport) editorURL(suffix string) string {
	return t.baseURL + "/api/editor/v1/" + url.PathEscape(t.editorId) + suffix
}

func (t *HTTPTransport) UploadChunk(ctx context.Context, payload []byte, fileSize int64, uploadId string) (string, error) {
	query := url.Values{}
	query.Set("uploadId", uploadId)
	query.Set("fileSize", strconv.FormatInt(fileSize, 10))
	var resp types.UploadChunkResponse
	err := t.call(ctx, http.MethodPost, t.editorURL("/upload-chunk?"+query.Encode()), "application/octet-stream", payload, &resp)
	if err != nil {
		return "", err
	}
	return resp.Reference, nil
}

func (t *HTTPTransport) TextChanged(ctx context.Context, chunk string, isLast bool) error {
	target := t.editorURL("/text-changed?isLast=" + strconv.FormatBool(isLast))
	return t.call(ctx, http.MethodPost, target, "text/plain; charset=utf-8", []byte(chunk), nil)
}

// Info fetches the current editor state.
func (t *HTTPTransport) Info(ctx context.Context) (types.EditorInfo, error) {
	var info types.EditorInfo
	err := t.call(ctx, http.MethodGet, t.editorURL(""), "", nil, &info)
	return info, err
}

// Close destroys the editor. A bridge that is already gone is not an error.
func (t *HTTPTransport) Close(ctx context.Context) error {
	err := t.call(ctx, http.MethodDelete, t.editorURL(""), "", nil, nil)
	var statusErr *StatusError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDisconnected):
		tool.DefaultLogger.Debugf("[Transfer] editor %s: bridge gone during close", t.editorId)
		return nil
	case errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound:
		return nil
	default:
		return err
	}
}

func (t *HTTPTransport) call(ctx context.Context, method, target, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrDisconnected, err)
	}
	var decoded apiResponse
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("failed to decode response (%s): %w", resp.Status, err)
		}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, Message: decoded.Error}
	}
	if out != nil && len(decoded.Data) > 0 {
		if err := sonic.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
