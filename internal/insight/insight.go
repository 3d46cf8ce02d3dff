// Package insight produces a short productivity write-up from the
// collection's aggregate counts. It never looks at individual tasks, only
// at how many are active and how many are done.
package insight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/braidtask/braid/internal/telemetry"
)

// Generator produces a productivity insight from task counts.
type Generator interface {
	GenerateInsight(ctx context.Context, active, completed int) (string, error)
}

// DefaultModel is used when the config names no model.
const DefaultModel = "claude-3-5-haiku-latest"

const (
	maxTokens         = 1024
	insightMaxElapsed = 30 * time.Second
)

// errAPIKeyRequired is returned when an API key is needed but not provided.
var errAPIKeyRequired = errors.New("API key required")

// AnthropicInsight asks Claude for a short markdown insight about the
// user's progress.
type AnthropicInsight struct {
	client     anthropic.Client
	model      anthropic.Model
	promptTmpl *template.Template
	maxElapsed time.Duration
}

var _ Generator = (*AnthropicInsight)(nil)

// NewAnthropicInsight creates an insight generator for the given model
// (empty means DefaultModel). Env var ANTHROPIC_API_KEY takes precedence
// over the explicit apiKey.
func NewAnthropicInsight(apiKey, model string) (*AnthropicInsight, error) {
	envKey := os.Getenv("ANTHROPIC_API_KEY")
	if envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY environment variable or provide via config", errAPIKeyRequired)
	}
	if model == "" {
		model = DefaultModel
	}

	tmpl, err := template.New("insight").Parse(insightPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse insight template: %w", err)
	}

	aiMetricsOnce.Do(initAIMetrics)

	return &AnthropicInsight{
		client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:      anthropic.Model(model),
		promptTmpl: tmpl,
		maxElapsed: insightMaxElapsed,
	}, nil
}

// GenerateInsight asks the model for a 1-2 sentence take on the given
// counts. The returned string is markdown suitable for terminal rendering.
func (g *AnthropicInsight) GenerateInsight(ctx context.Context, active, completed int) (string, error) {
	prompt, err := g.renderPrompt(active, completed)
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	raw, err := g.call(ctx, prompt)
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(raw)
	if out == "" {
		return "", fmt.Errorf("unexpected response format: empty insight")
	}
	return out, nil
}

// aiMetrics mirrors the instruments the breakdown generator registers; the
// shared meter scope and identical names make both packages feed the same
// counters.
var aiMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

var aiMetricsOnce sync.Once

func initAIMetrics() {
	m := telemetry.Meter("github.com/braidtask/braid/ai")
	aiMetrics.inputTokens, _ = m.Int64Counter("braid.ai.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.outputTokens, _ = m.Int64Counter("braid.ai.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.duration, _ = m.Float64Histogram("braid.ai.request.duration",
		metric.WithDescription("Anthropic API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

func (g *AnthropicInsight) call(ctx context.Context, prompt string) (string, error) {
	tracer := telemetry.Tracer("github.com/braidtask/braid/ai")
	ctx, span := tracer.Start(ctx, "anthropic.messages.new")
	defer span.End()
	span.SetAttributes(
		attribute.String("braid.ai.model", string(g.model)),
		attribute.String("braid.ai.operation", "insight"),
	)

	params := anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	// BackOff implementations are stateful; always build a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = g.maxElapsed

	attempts := 0
	var result string
	err := backoff.Retry(func() error {
		attempts++
		t0 := time.Now()
		message, err := g.client.Messages.New(ctx, params)
		ms := float64(time.Since(t0).Milliseconds())

		if err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		modelAttr := attribute.String("braid.ai.model", string(g.model))
		if aiMetrics.inputTokens != nil {
			aiMetrics.inputTokens.Add(ctx, message.Usage.InputTokens, metric.WithAttributes(modelAttr))
			aiMetrics.outputTokens.Add(ctx, message.Usage.OutputTokens, metric.WithAttributes(modelAttr))
			aiMetrics.duration.Record(ctx, ms, metric.WithAttributes(modelAttr))
		}
		span.SetAttributes(
			attribute.Int64("braid.ai.input_tokens", message.Usage.InputTokens),
			attribute.Int64("braid.ai.output_tokens", message.Usage.OutputTokens),
			attribute.Int("braid.ai.attempts", attempts),
		)

		if len(message.Content) == 0 {
			return backoff.Permanent(fmt.Errorf("unexpected response format: no content blocks"))
		}
		content := message.Content[0]
		if content.Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type))
		}
		result = content.Text
		return nil
	}, backoff.WithContext(bo, ctx))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("anthropic call failed: %w", err)
	}
	return result, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		statusCode := apiErr.StatusCode
		return statusCode == 429 || statusCode >= 500
	}

	return false
}

type promptData struct {
	Active    int
	Completed int
}

func (g *AnthropicInsight) renderPrompt(active, completed int) (string, error) {
	var sb strings.Builder
	if err := g.promptTmpl.Execute(&sb, promptData{Active: active, Completed: completed}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const insightPromptTemplate = `I have {{.Active}} active tasks and {{.Completed}} completed tasks in my todo list. Give me a brief, encouraging productivity insight in 1-2 sentences.

Respond with plain markdown, no headings and no lists.`
