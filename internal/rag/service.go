// ABOUTME: Query service orchestration: retrieve, build prompt, generate, validate
// ABOUTME: Empty retrieval short-circuits with the fixed no-information reply
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fixed user-facing replies. NoContextReply is a normal answer, not an error;
// ApologyReply is what transports send when Answer returns an error.
const (
	NoContextReply = "I don't have any relevant information about that in my knowledge base."
	ApologyReply   = "Sorry, something went wrong while answering. Please try again."
)

// ErrEmptyAnswer is returned when generation produces an empty string.
var ErrEmptyAnswer = errors.New("generation produced an empty answer")

// Generator maps a grounded prompt to an answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service answers questions over the ingested corpus. It holds no per-question
// state, so one Service serves any number of concurrent callers.
type Service struct {
	retriever *Retriever
	generator Generator
}

// NewService wires the retriever and generation capability together.
func NewService(retriever *Retriever, generator Generator) *Service {
	return &Service{retriever: retriever, generator: generator}
}

// Answer runs one question through the pipeline. When retrieval finds
// nothing, it returns NoContextReply without invoking generation.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	fragments, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	if len(fragments) == 0 {
		return NoContextReply, nil
	}

	prompt := BuildPrompt(question, fragments)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
