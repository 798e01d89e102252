// Package llm backs the free-form generation collaborator with a chat
// model behind a single prompt->model pipeline.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/bellavista/concierge/agent/contract"
	openrouterx "github.com/bellavista/concierge/pkg/openrouter"
)

// Completer issues persona-constrained completions with a bounded timeout.
// Any upstream failure surfaces as ErrGenerationUnavailable so handlers
// can substitute their fixed fallback replies.
type Completer struct {
	runner  compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

var _ contractx.Completer = (*Completer)(nil)

func NewCompleter(
	ctx context.Context,
	builder openrouterx.LLMBuilder,
	systemPrompt string,
	timeout time.Duration,
) (*Completer, error) {
	if builder == nil {
		return nil, fmt.Errorf("%w: llm builder is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: system prompt is required", contractx.ErrValidation)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	chatModel, err := builder.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create chat model: %v", contractx.ErrGenerationUnavailable, err)
	}

	runner, err := compileCompletionGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrGenerationUnavailable, err)
	}

	return &Completer{runner: runner, timeout: timeout}, nil
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.runner.Invoke(callCtx, map[string]any{"input": prompt})
	if err != nil {
		return "", fmt.Errorf("%w: completion invoke: %v", contractx.ErrGenerationUnavailable, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: empty completion response", contractx.ErrGenerationUnavailable)
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", fmt.Errorf("%w: blank completion content", contractx.ErrGenerationUnavailable)
	}
	return content, nil
}
