package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProxyEnv(t *testing.T) {
	for _, k := range []string{"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY", "http_proxy", "https_proxy", "no_proxy", "REQUEST_METHOD"} {
		t.Setenv(k, "")
	}
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	clearProxyEnv(t)
	proxy := NewProxyFunc("http://plain.proxy:8080", "http://secure.proxy:8443", "")

	req, err := http.NewRequest(http.MethodGet, "https://api.openai.com/v1/models", nil)
	require.NoError(t, err)
	u, err := proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "secure.proxy:8443", u.Host)

	req, err = http.NewRequest(http.MethodGet, "http://ollama.internal:11434/api/tags", nil)
	require.NoError(t, err)
	u, err = proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "plain.proxy:8080", u.Host)
}

func TestNewProxyFunc_NoProxy(t *testing.T) {
	clearProxyEnv(t)
	proxy := NewProxyFunc("http://plain.proxy:8080", "", "ollama.internal")

	req, err := http.NewRequest(http.MethodGet, "http://ollama.internal:11434/api/generate", nil)
	require.NoError(t, err)
	u, err := proxy(req)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestNewHTTPClient(t *testing.T) {
	clearProxyEnv(t)
	client := NewHTTPClient(5*time.Second, ProxyConfig{HTTPProxy: "http://plain.proxy:8080"})

	assert.Equal(t, 5*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
}
