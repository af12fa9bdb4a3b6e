package naming

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "castgraph/backend/pkg/errors"
)

func TestClient_Suggest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GeneratePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`How about "Mira"?`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 5*time.Second)
	reply, err := client.Suggest(context.Background(), Request{
		Histories:       []Message{},
		Characteristics: []string{"is shy"},
		Relationships:   []RelationshipHint{},
	})
	require.NoError(t, err)

	assert.Equal(t, `How about "Mira"?`, reply)
	assert.Equal(t, []any{}, got["histories"])
	assert.Equal(t, []any{"is shy"}, got["characteristics"])
	assert.Equal(t, []any{}, got["relationships"])
}

func TestClient_SuggestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("failed to request OpenAI"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Suggest(context.Background(), Request{})
	require.Error(t, err)

	var reqErr *apperrors.ErrNamingRequestFailed
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestClient_SuggestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	_, err := client.Suggest(context.Background(), Request{})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNaming))
}
