package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthStatus(t *testing.T) {
	code, status := healthStatus(nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)

	code, status = healthStatus(assert.AnError)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", status)
}
