package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, "", normalizeAddr(""))
	assert.Equal(t, ":8080", normalizeAddr("8080"))
	assert.Equal(t, ":9090", normalizeAddr(":9090"))
}

func TestNewHTTPServer_WriteTimeout(t *testing.T) {
	srv := newHTTPServer(":0", http.NewServeMux(), 0)
	assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)

	srv = newHTTPServer(":0", http.NewServeMux(), 45*time.Second)
	assert.Equal(t, 45*time.Second, srv.WriteTimeout)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}

func TestShutdownBeforeRun(t *testing.T) {
	s := &Server{}
	assert.NoError(t, s.Shutdown(context.Background()))
}
