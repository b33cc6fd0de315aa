package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocalAddress(t *testing.T) {
	assert.True(t, IsLocalAddress("127.0.0.1"))
	assert.True(t, IsLocalAddress("::1"))
	assert.False(t, IsLocalAddress("192.0.2.10"))
	assert.False(t, IsLocalAddress("not-an-ip"))
	assert.False(t, IsLocalAddress(""))
}
