package pushover_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/infra/pushover"
)

func TestClient_Notify(t *testing.T) {
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"token":   r.PostForm.Get("token"),
			"user":    r.PostForm.Get("user"),
			"message": r.PostForm.Get("message"),
			"title":   r.PostForm.Get("title"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := pushover.NewClientWithURL("tok", "usr", "", server.URL)

	require.NoError(t, client.Notify(context.Background(), "Reminder: check the oven"))
	assert.Equal(t, map[string]string{
		"token":   "tok",
		"user":    "usr",
		"message": "Reminder: check the oven",
		"title":   "Voice Assistant",
	}, form)
}

func TestClient_NotifyWithoutCredentialsIsNoop(t *testing.T) {
	client := pushover.NewClientWithURL("", "", "", "http://127.0.0.1:1")
	assert.NoError(t, client.Notify(context.Background(), "ignored"))
}

func TestClient_NotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusBadRequest)
	}))
	defer server.Close()

	client := pushover.NewClientWithURL("tok", "usr", "Home", server.URL)
	assert.ErrorContains(t, client.Notify(context.Background(), "hi"), "400")
}

func TestClient_NotifyRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":1,"request":"abc"}`))
	}))
	defer server.Close()

	client := pushover.NewClientWithURL("tok", "usr", "", server.URL)

	require.NoError(t, client.Notify(context.Background(), "hi"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NotifyPriorityAndTruncation(t *testing.T) {
	var priority, message string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		priority = r.PostForm.Get("priority")
		message = r.PostForm.Get("message")
	}))
	defer server.Close()

	client := pushover.NewClient("tok", "usr", "", pushover.WithEndpoint(server.URL), pushover.WithPriority(5))

	require.NoError(t, client.Notify(context.Background(), strings.Repeat("a", 2000)))
	assert.Equal(t, "1", priority)
	assert.Equal(t, 1024, utf8.RuneCountInString(message))
}
