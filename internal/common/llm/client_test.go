package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "folder-metadata/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, status int, body string, check func(r *http.Request, req chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestInvoke_SendsChatRequest(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"x\"}"}}]}`,
		func(r *http.Request, req chatRequest) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
			assert.Equal(t, "llama-3.1-8b-instant", req.Model)
			assert.Equal(t, []Message{
				{Role: "system", Content: "sys"},
				{Role: "user", Content: "usr"},
			}, req.Messages)
		})
	defer server.Close()

	client := NewClient(server.URL+"/v1/", "gsk_test", time.Second)
	out, err := client.Invoke(context.Background(), "llama-3.1-8b-instant", "sys", "usr")

	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, out)
}

func TestInvoke_NoAuthHeaderWithoutKey(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`,
		func(r *http.Request, _ chatRequest) {
			assert.Empty(t, r.Header.Get("Authorization"))
		})
	defer server.Close()

	_, err := NewClient(server.URL, "", 0).Invoke(context.Background(), "m", "s", "u")
	require.NoError(t, err)
}

func TestInvoke_NullContentIsEmpty(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"choices":[{"message":{"content":null}}]}`, nil)
	defer server.Close()

	out, err := NewClient(server.URL, "k", 0).Invoke(context.Background(), "m", "s", "u")

	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestInvoke_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"provider error", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key"}}`, "Invalid API Key"},
		{"server error", http.StatusBadGateway, `upstream down`, "http 502"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"malformed body", http.StatusOK, `not json`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newChatServer(t, tt.status, tt.body, nil)
			defer server.Close()

			_, err := NewClient(server.URL, "k", time.Second).Invoke(context.Background(), "m", "s", "u")

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrModelInvocation))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestInvoke_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, "k", time.Second).Invoke(context.Background(), "m", "s", "u")

	assert.True(t, errors.Is(err, apperrors.ErrModelInvocation))
}

func TestInvokerFunc(t *testing.T) {
	var inv Invoker = InvokerFunc(func(_ context.Context, model, system, user string) (string, error) {
		return model + "|" + system + "|" + user, nil
	})

	out, err := inv.Invoke(context.Background(), "m", "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "m|s|u", out)
}
