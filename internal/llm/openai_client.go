// ABOUTME: OpenAI client for query/fragment embeddings and grounded answers
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for chat
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/askdoc/internal/config"
	"github.com/harper/askdoc/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// Sentinel errors for the two capabilities, so callers can classify failures
// without inspecting messages.
var (
	ErrEmbedding  = errors.New("embedding failed")
	ErrGeneration = errors.New("generation failed")
)

// go-openai omits a zero temperature from the request body, which silently
// falls back to the server default. The smallest positive value keeps
// decoding deterministic.
const minTemperature = 1e-8

// Client wraps the OpenAI API with retry logic and a fixed embedding
// dimension contract. Safe for concurrent use.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimension      int
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a Client from the loaded configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &Client{
		client:         openai.NewClient(cfg.OpenAIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension:      cfg.Dimension,
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Embed maps text to its embedding vector. The returned vector always has
// the configured dimension; a mismatch from the API is treated as a failure.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return errors.New("no embeddings returned")
		}
		if got := len(resp.Data[0].Embedding); got != c.dimension {
			return fmt.Errorf("embedding dimension %d, expected %d", got, c.dimension)
		}
		embedding = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	return embedding, nil
}

// Generate maps a prompt to an answer with deterministic decoding. An empty
// or whitespace-only completion is a generation failure.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var answer string

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: minTemperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no completion choices returned")
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return errors.New("empty completion")
		}
		answer = content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return answer, nil
}

// Dimension reports the embedding dimension the client is configured for.
func (c *Client) Dimension() int {
	return c.dimension
}
