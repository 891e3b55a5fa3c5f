package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/exportlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return body
}

func TestNewCategorizer(t *testing.T) {
	c := NewCategorizer(Config{APIKey: "test-key"})
	assert.Equal(t, DefaultChatModel, c.model)
	assert.NotNil(t, c.rateLimiter)
}

func TestCategorize_Success(t *testing.T) {
	server := newTestServer(t, "/v1/chat/completions", func(w http.ResponseWriter, body map[string]any) {
		assert.Equal(t, "gpt-4.1-mini", body["model"])
		format, ok := body["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])

		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		user := messages[1].(map[string]any)
		assert.Contains(t, user["content"], `"id":"p1"`)

		w.Write(chatReply(`{"assignments":[{"productId":"p1","categoryId":"beverages","confidence":0.8}]}`))
	})

	c := NewCategorizer(testConfig(server))
	got, err := c.Categorize(context.Background(),
		[]domain.ProductVariant{{ID: "p1", Name: "Red Wine"}},
		[]domain.ProductCategory{{ID: "beverages", Name: "Beverages"}},
	)
	require.NoError(t, err)
	assert.Equal(t, []domain.LLMAssignment{{ProductID: "p1", CategoryID: "beverages", Confidence: 0.8}}, got)
}

func TestCategorize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    []byte
		wantErr error
	}{
		{
			name:    "api error",
			status:  http.StatusInternalServerError,
			body:    []byte(`{"error":{"message":"boom","type":"server_error"}}`),
			wantErr: domain.ErrLLMFailure,
		},
		{
			name:    "free text reply",
			status:  http.StatusOK,
			body:    chatReply("p1 is a beverage"),
			wantErr: domain.ErrLLMSchema,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    []byte(`{"id":"x","object":"chat.completion","choices":[]}`),
			wantErr: domain.ErrLLMSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, "/v1/chat/completions", func(w http.ResponseWriter, _ map[string]any) {
				w.WriteHeader(tt.status)
				w.Write(tt.body)
			})

			_, err := NewCategorizer(testConfig(server)).Categorize(context.Background(),
				[]domain.ProductVariant{{ID: "p1", Name: "Red Wine"}},
				[]domain.ProductCategory{{ID: "beverages", Name: "Beverages"}},
			)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
