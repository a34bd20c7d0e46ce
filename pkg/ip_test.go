package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUserIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "93.184.216.34:51234"
	ip, err := ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", ip)

	req.Header.Set("X-Forwarded-For", "81.2.69.160, 10.0.0.1")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "81.2.69.160", ip)

	req.Header.Set("X-Real-Ip", "127.0.0.1:8080")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "localhost", ip)

	req.Header.Set("X-Real-Ip", "not-an-ip")
	_, err = ReadUserIP(req)
	assert.Error(t, err)
}

func TestIPIsLocal(t *testing.T) {
	assert.True(t, IPIsLocal("127.0.0.1:1234"))
	assert.True(t, IPIsLocal("172.17.0.1:5555"))
	assert.False(t, IPIsLocal("172.17.3.1:5555"))
	assert.False(t, IPIsLocal("8.8.8.8"))
}
