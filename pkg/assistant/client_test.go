package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStreamReadsBodyUntilEOF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assistant/v1/stream", r.URL.Path)

		var payload struct {
			Messages []Turn `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Messages, 1)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, fragment := range []string{"Az ", "iPhone 15", " ajánlott."} {
			w.Write([]byte(fragment))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var got string
	err := client.Stream(context.Background(), []Turn{{Role: "user", Content: "telefon?"}}, func(fragment string) {
		got += fragment
	})
	require.NoError(t, err)
	assert.Equal(t, "Az iPhone 15 ajánlott.", got)
}

func TestClientStreamMapsServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "assistant is not configured"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	called := false
	err := client.Stream(context.Background(), []Turn{{Role: "user", Content: "hi"}}, func(string) {
		called = true
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called, "no fragment may be delivered on a pre-stream failure")
}

func TestClientAskDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assistant/v1/ask", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ajándék ötlet", payload["question"])

		json.NewEncoder(w).Encode(AskResult{
			Success:     true,
			Answer:      "Az AirPods Pro remek ajándék.",
			Products:    []ProductStub{{Name: "AirPods Pro", Slug: "airpods-pro", Price: 89990}},
			Suggestions: []string{"Mutass még fülhallgatót"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	res, err := client.Ask(context.Background(), "ajándék ötlet")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Products, 1)
	assert.Equal(t, int64(89990), res.Products[0].Price)
}

func TestClientAskTreatsNonSuccessAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AskResult{Success: false})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	res, err := client.Ask(context.Background(), "kérdés")
	require.NoError(t, err)
	assert.False(t, res.Success)
}
