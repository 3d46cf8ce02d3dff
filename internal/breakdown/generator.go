// Package breakdown drives the break-into-subtasks workflow: a generator
// proposes subtasks for a task's text and the synchronizer applies them to
// the store as one atomic child replacement.
package breakdown

import (
	"context"
	"encoding/json"
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

	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/telemetry"
)

// SubtaskGenerator produces subtask suggestions for a task's text. The call
// may block on I/O; implementations must honor ctx cancellation.
type SubtaskGenerator interface {
	GenerateSubtasks(ctx context.Context, text string) ([]task.Suggestion, error)
}

// DefaultModel is used when the config names no model.
const DefaultModel = "claude-3-5-haiku-latest"

const (
	maxTokens          = 1024
	generateMaxElapsed = 45 * time.Second
)

// errAPIKeyRequired is returned when an API key is needed but not provided.
var errAPIKeyRequired = errors.New("API key required")

// AnthropicGenerator asks Claude to break a task into subtasks.
type AnthropicGenerator struct {
	client     anthropic.Client
	model      anthropic.Model
	promptTmpl *template.Template
	maxElapsed time.Duration
}

var _ SubtaskGenerator = (*AnthropicGenerator)(nil)

// NewAnthropicGenerator creates a generator for the given model (empty means
// DefaultModel). Env var ANTHROPIC_API_KEY takes precedence over the
// explicit apiKey.
func NewAnthropicGenerator(apiKey, model string) (*AnthropicGenerator, error) {
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

	tmpl, err := template.New("subtasks").Parse(subtaskPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtask template: %w", err)
	}

	aiMetricsOnce.Do(initAIMetrics)

	return &AnthropicGenerator{
		client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:      anthropic.Model(model),
		promptTmpl: tmpl,
		maxElapsed: generateMaxElapsed,
	}, nil
}

// GenerateSubtasks renders the prompt for the task text, calls the model and
// parses the response into suggestions. A response that parses to zero
// usable suggestions is not an error; the synchronizer treats it as
// "nothing to apply".
func (g *AnthropicGenerator) GenerateSubtasks(ctx context.Context, text string) ([]task.Suggestion, error) {
	prompt, err := g.renderPrompt(text)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	raw, err := g.call(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSuggestions(raw)
}

// aiMetrics holds lazily-initialized OTel instruments for Anthropic API calls.
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

func (g *AnthropicGenerator) call(ctx context.Context, prompt string) (string, error) {
	tracer := telemetry.Tracer("github.com/braidtask/braid/ai")
	ctx, span := tracer.Start(ctx, "anthropic.messages.new")
	defer span.End()
	span.SetAttributes(
		attribute.String("braid.ai.model", string(g.model)),
		attribute.String("braid.ai.operation", "breakdown"),
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

type suggestionRecord struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// parseSuggestions decodes the model response into suggestions. Strict JSON
// first; models occasionally wrap the array in a markdown fence despite
// instructions, so a bracket-slice fallback handles that. Records with blank
// text are dropped; unknown priorities fall back to MEDIUM.
func parseSuggestions(raw string) ([]task.Suggestion, error) {
	raw = strings.TrimSpace(raw)

	var records []suggestionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		start := strings.Index(raw, "[")
		end := strings.LastIndex(raw, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("response is not a JSON array: %w", err)
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &records); err != nil {
			return nil, fmt.Errorf("response is not a JSON array: %w", err)
		}
	}

	out := make([]task.Suggestion, 0, len(records))
	for _, r := range records {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		priority, err := task.ParsePriority(r.Priority)
		if err != nil {
			priority = task.PriorityMedium
		}
		out = append(out, task.Suggestion{Text: text, Priority: priority})
	}
	return out, nil
}

type promptData struct {
	Text string
}

func (g *AnthropicGenerator) renderPrompt(text string) (string, error) {
	var sb strings.Builder
	if err := g.promptTmpl.Execute(&sb, promptData{Text: text}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const subtaskPromptTemplate = `Break the following task into 3-5 smaller, actionable subtasks.

Task: {{.Text}}

Respond with ONLY a JSON array, no prose and no code fences. Each element must have this shape:

{"text": "<short imperative subtask>", "priority": "LOW" | "MEDIUM" | "HIGH"}

Order the subtasks in the sequence they should be done. Keep each text under 80 characters.`
