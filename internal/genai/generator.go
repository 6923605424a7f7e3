// Package genai produces grounded answers from retrieved context via an
// OpenAI-compatible chat completions API.
package genai

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fredygallego8/wayuulingo-api/internal/metrics"
)

// The two degenerate outputs are deliberately distinct literals: one means
// the model call succeeded but produced no text, the other that the call
// itself failed. Tests and callers must be able to tell them apart.
const (
	// NoAnswerMessage is returned when the model responds with empty text.
	NoAnswerMessage = "The model could not generate a response for this query."
	// UnavailableMessage is returned when the model call fails outright.
	UnavailableMessage = "Sorry, an answer could not be generated right now. " +
		"The retrieved passages are still included below."
)

// completer is the consumer interface over the chat completions client.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator sends a single grounding-constrained prompt per query. Its Answer
// never fails outward.
type Generator struct {
	client completer
	model  string
	logger *zap.Logger
}

// Config holds the generative model settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// New creates an answer generator.
func New(cfg Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Answer asks the model for a grounded answer to query over contextBlock.
// Single request/response, no streaming, no multi-turn state.
func (g *Generator) Answer(ctx context.Context, query, contextBlock string) string {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(query, contextBlock)},
		},
	})
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("error").Inc()
		g.logger.Warn("Answer generation failed", zap.Error(err))
		return UnavailableMessage
	}
	metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(time.Since(start).Seconds())

	text := ""
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if text == "" {
		metrics.GenerationRequestsTotal.WithLabelValues("empty").Inc()
		return NoAnswerMessage
	}

	metrics.GenerationRequestsTotal.WithLabelValues("success").Inc()
	return text
}

// buildPrompt assembles the persona, the grounding constraint, the literal
// query, the retrieved context, and the style instructions into one prompt.
func buildPrompt(query, contextBlock string) string {
	var b strings.Builder

	b.WriteString("You are an expert assistant on the Wayuu language (wayuunaiki) and Wayuu culture.\n\n")
	b.WriteString("Answer the question using ONLY the information in the context below. ")
	b.WriteString("If the context does not contain enough information, say so explicitly ")
	b.WriteString("and point out what is missing.\n\n")

	b.WriteString("Question:\n")
	b.WriteString(query)
	b.WriteString("\n\nContext:\n")
	b.WriteString(contextBlock)

	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- Answer clearly and with structure.\n")
	b.WriteString("- Include illustrative examples when the context provides them.\n")
	b.WriteString("- If passages contradict each other, resolve the contradiction explicitly.\n")
	b.WriteString("- Cite the source documents when appropriate.\n")

	return b.String()
}
