package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct", "203.0.113.7:44312", "", "203.0.113.7"},
		{"behind proxy", "10.0.0.1:80", "203.0.113.7", "203.0.113.7"},
		{"proxy chain takes first hop", "10.0.0.1:80", "203.0.113.7, 10.0.0.2", "203.0.113.7"},
		{"no port", "203.0.113.7", "", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestPaginationDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/customers", nil)
	page, limit, offset := pagination(req)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	req = httptest.NewRequest("GET", "/customers?page=3&limit=50", nil)
	page, limit, offset = pagination(req)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 100, offset)

	// Oversized and invalid values fall back
	req = httptest.NewRequest("GET", "/customers?page=-1&limit=9999", nil)
	page, limit, _ = pagination(req)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}
