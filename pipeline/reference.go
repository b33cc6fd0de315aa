package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/base64x"
)

var ErrInvalidReference = errors.New("invalid data reference")

// Reference wraps data as data:<mediaType>;base64,<payload>.
func Reference(mediaType string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mediaType) + base64x.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(mediaType)
	sb.WriteString(";base64,")
	sb.WriteString(base64x.StdEncoding.EncodeToString(data))
	return sb.String()
}

// ParseReference splits a reference produced by Reference back into its parts.
func ParseReference(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidReference)
	}
	mediaType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || mediaType == "" {
		return "", nil, fmt.Errorf("%w: missing media type or base64 marker", ErrInvalidReference)
	}
	data, err := base64x.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return mediaType, data, nil
}
