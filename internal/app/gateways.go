package app

import (
	"log"

	"github.com/exportlens/backend/config"
	"github.com/exportlens/backend/internal/domain"
	"github.com/exportlens/backend/internal/infrastructure/openai"
	"github.com/exportlens/backend/internal/infrastructure/voyage"
)

// newEmbeddingGateway returns the configured embedding gateway, or nil for
// provider "none" so consolidation runs on the fallback rules only.
func newEmbeddingGateway(cfg *config.Config) domain.EmbeddingGateway {
	debug := cfg.Server.Environment == "development"

	switch cfg.Embedding.Provider {
	case config.ProviderVoyage:
		client := voyage.NewClient(voyage.Config{
			APIKey:            cfg.Embedding.APIKey,
			Model:             cfg.Embedding.Model,
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
		client.SetDebug(debug)
		log.Printf("[EMBED] Voyage AI gateway: model=%s dimensions=%d (key: %s)",
			cfg.Embedding.Model, cfg.Embedding.Dimensions, maskKey(cfg.Embedding.APIKey))
		return client

	case config.ProviderOpenAI:
		log.Printf("[EMBED] OpenAI gateway: model=%s (key: %s)", cfg.Embedding.Model, maskKey(cfg.Embedding.APIKey))
		return openai.NewEmbedder(openai.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			EmbeddingModel:    openAIEmbeddingModel(cfg.Embedding.Model),
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
			Timeout:           cfg.Embedding.Timeout,
		})

	default:
		log.Printf("WARNING: [EMBED] No embedding provider configured, products will be classified by fallback rules only")
		return nil
	}
}

// newLLMCategorizer returns the optional LLM categorizer, or nil when disabled
func newLLMCategorizer(cfg *config.Config) domain.LLMCategorizer {
	if !cfg.LLM.Enabled {
		return nil
	}

	log.Printf("[LLM] Categorizer enabled: model=%s (key: %s)", cfg.LLM.Model, maskKey(cfg.LLM.APIKey))
	return openai.NewCategorizer(openai.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		ChatModel: cfg.LLM.Model,
		Timeout:   cfg.LLM.Timeout,
	})
}

// openAIEmbeddingModel keeps the Voyage default model name from leaking into OpenAI requests
func openAIEmbeddingModel(model string) string {
	if model == "" || model == voyage.DefaultModel {
		return openai.DefaultEmbeddingModel
	}
	return model
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}
