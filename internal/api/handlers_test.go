package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textaug/internal/registry"
	"textaug/internal/wordstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, withStore bool) *gin.Engine {
	t.Helper()
	return setupRouterWithDefaults(t, withStore, registry.Spec{})
}

func setupRouterWithDefaults(t *testing.T, withStore bool, defaults registry.Spec) *gin.Engine {
	t.Helper()
	var store WordStore
	if withStore {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		store = wordstore.New(client)
	}
	return NewRouter(NewHandlers(store, Limits{MaxThreads: 4, MaxItems: 50}, defaults, nil))
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHandleAugment_Text(t *testing.T) {
	r := setupRouter(t, false)
	w := do(t, r, http.MethodPost, "/api/v1/augment", map[string]any{
		"augmenter":  map[string]any{"type": "random_char", "action": "delete", "aug_char_min": 1, "aug_char_max": 1, "aug_char_p": 1.0, "min_char": 1},
		"text":       "hello",
		"n":          6,
		"num_thread": 3,
		"seed":       7,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[AugmentResponse](t, w)
	require.Len(t, resp.Results, 6)
	for _, s := range resp.Results {
		assert.Len(t, s, 4)
	}
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, resp.ID, w.Header().Get("X-Request-ID"))
}

func TestHandleAugment_TextsKeepOrder(t *testing.T) {
	r := setupRouter(t, false)
	w := do(t, r, http.MethodPost, "/api/v1/augment", map[string]any{
		"augmenter":  map[string]any{"type": "ocr", "aug_char_min": 0, "aug_char_p": 0, "aug_word_min": 0, "aug_word_p": 0},
		"texts":      []string{"a", "b", "c"},
		"num_thread": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"a", "b", "c"}, decode[AugmentResponse](t, w).Results)
}

func TestHandleAugment_Errors(t *testing.T) {
	r := setupRouter(t, false)
	tests := []struct {
		name string
		body any
		code int
		want string
	}{
		{"not json", "garbage", http.StatusBadRequest, "INVALID_REQUEST"},
		{"no text", map[string]any{"augmenter": map[string]any{"type": "ocr"}}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"both text and texts", map[string]any{"augmenter": map[string]any{"type": "ocr"}, "text": "a", "texts": []string{"b"}}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad augmenter", map[string]any{"augmenter": map[string]any{"type": "nope"}, "text": "a"}, http.StatusBadRequest, "INVALID_CONFIG"},
		{"min above max", map[string]any{"augmenter": map[string]any{"type": "ocr", "aug_char_min": 3, "aug_char_max": 1}, "text": "a"}, http.StatusBadRequest, "INVALID_CONFIG"},
		{"negative n", map[string]any{"augmenter": map[string]any{"type": "ocr"}, "text": "a", "n": -1}, http.StatusBadRequest, "INVALID_INPUT"},
		{"too many", map[string]any{"augmenter": map[string]any{"type": "ocr"}, "text": "a", "n": 51}, http.StatusBadRequest, "TOO_MANY_ITEMS"},
		{"target set with target map", map[string]any{"augmenter": map[string]any{"type": "random_word", "action": "substitute", "target_map": map[string]any{"a": []string{"b"}}}, "text": "a", "target_set": "t"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"store disabled", map[string]any{"augmenter": map[string]any{"type": "ocr"}, "text": "a", "stopword_set": "sw"}, http.StatusServiceUnavailable, "STORE_DISABLED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/augment", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestWordRoutes(t *testing.T) {
	r := setupRouter(t, true)

	w := do(t, r, http.MethodPost, "/api/v1/words/stop", map[string]any{"words": []string{"keep", " ", "stay "}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/words/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{"keep", "stay"}, decode[WordsResponse](t, w).Words)

	w = do(t, r, http.MethodDelete, "/api/v1/words/stop/stay", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/words/stop", nil)
	assert.Equal(t, []string{"keep"}, decode[WordsResponse](t, w).Words)

	w = do(t, r, http.MethodGet, "/api/v1/words/empty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{}, decode[WordsResponse](t, w).Words)

	w = do(t, r, http.MethodPost, "/api/v1/words/stop", map[string]any{"words": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAugment_WithWordSets(t *testing.T) {
	r := setupRouter(t, true)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/words/stop", map[string]any{"words": []string{"keep"}}).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/words/targets", map[string]any{"words": []string{"X"}}).Code)

	w := do(t, r, http.MethodPost, "/api/v1/augment", map[string]any{
		"augmenter":    map[string]any{"type": "random_word", "action": "substitute", "aug_word_p": 1.0, "aug_word_max": 100},
		"text":         "keep this and keep that",
		"n":            3,
		"stopword_set": "stop",
		"target_set":   "targets",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, s := range decode[AugmentResponse](t, w).Results {
		assert.Equal(t, "keep X X keep X", s)
	}
}

func TestWordRoutes_StoreDisabled(t *testing.T) {
	r := setupRouter(t, false)
	w := do(t, r, http.MethodGet, "/api/v1/words/stop", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupRouter(t, false)
	w := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// generate at least one observation
	do(t, r, http.MethodPost, "/api/v1/augment", map[string]any{"augmenter": map[string]any{"type": "ocr"}, "text": "mama"})
	w = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "textaug_batch_total"))
}

func TestHandleAugment_ConfiguredDefaults(t *testing.T) {
	one, full := 1, 1.0
	r := setupRouterWithDefaults(t, false, registry.Spec{
		Type:    "random_char",
		Action:  "delete",
		CharMin: &one,
		CharMax: &one,
		CharP:   &full,
		MinChar: &one,
	})

	w := do(t, r, http.MethodPost, "/api/v1/augment", map[string]any{"text": "hello", "n": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, s := range decode[AugmentResponse](t, w).Results {
		assert.Len(t, s, 4, "the configured augmenter deletes one character")
	}

	w = do(t, r, http.MethodPost, "/api/v1/augment", map[string]any{
		"augmenter": map[string]any{"action": "insert", "candidates": []string{"X"}},
		"text":      "hello",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[AugmentResponse](t, w).Results[0], 6, "request fields override the defaults")
}
