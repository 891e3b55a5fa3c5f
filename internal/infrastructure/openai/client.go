package openai

import (
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultChatModel      = "gpt-4.1-mini"
)

// Config holds OpenAI-compatible API settings shared by the embedder and the categorizer
type Config struct {
	APIKey            string
	BaseURL           string // empty uses the public OpenAI endpoint
	EmbeddingModel    string
	Dimensions        int
	ChatModel         string
	RequestsPerSecond float64
	Timeout           time.Duration
}

func newAPIClient(cfg Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(clientConfig)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		rps = 5
	}
	return rate.NewLimiter(rate.Limit(rps), 2)
}
