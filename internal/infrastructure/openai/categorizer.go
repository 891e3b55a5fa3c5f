package openai

import (
	"context"
	"fmt"
	"log"

	"github.com/exportlens/backend/internal/domain"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const systemPrompt = `You classify export product listings into a fixed category catalog.
Reply with a single JSON object of the form
{"assignments":[{"productId":"<product id>","categoryId":"<category id>","confidence":<number 0-1>}]}
Assign every product exactly once. Use only category ids from the catalog. Do not add other fields.`

// Categorizer assigns products to catalog categories with a chat completion model
type Categorizer struct {
	client      *openai.Client
	model       string
	rateLimiter *rate.Limiter
}

// NewCategorizer creates a new LLM categorizer
func NewCategorizer(cfg Config) *Categorizer {
	model := cfg.ChatModel
	if model == "" {
		model = DefaultChatModel
	}

	return &Categorizer{
		client:      newAPIClient(cfg),
		model:       model,
		rateLimiter: newLimiter(cfg.RequestsPerSecond),
	}
}

// Categorize asks the model for one assignment per product. The reply is parsed
// strictly; cross-checking against the batch and catalog is left to the caller.
func (c *Categorizer) Categorize(ctx context.Context, products []domain.ProductVariant, catalog []domain.ProductCategory) ([]domain.LLMAssignment, error) {
	prompt, err := buildUserPrompt(products, catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: build prompt: %v", domain.ErrLLMFailure, err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrLLMFailure, err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.Printf("[LLM] Chat completion error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", domain.ErrLLMSchema)
	}

	assignments, err := ParseAssignments(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("[LLM] Rejected model reply: %v", err)
		return nil, err
	}

	log.Printf("[LLM] %d assignments for %d products from %s", len(assignments), len(products), c.model)
	return assignments, nil
}

var _ domain.LLMCategorizer = (*Categorizer)(nil)
