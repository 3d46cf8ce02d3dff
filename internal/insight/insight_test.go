package insight

import (
	"strings"
	"testing"
	"text/template"
)

func TestRenderPrompt(t *testing.T) {
	g := &AnthropicInsight{
		promptTmpl: template.Must(template.New("insight").Parse(insightPromptTemplate)),
	}

	got, err := g.renderPrompt(7, 12)
	if err != nil {
		t.Fatalf("renderPrompt() error = %v", err)
	}
	if !strings.Contains(got, "7 active tasks") {
		t.Errorf("prompt missing active count: %q", got)
	}
	if !strings.Contains(got, "12 completed tasks") {
		t.Errorf("prompt missing completed count: %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Errorf("prompt contains unexpanded template syntax: %q", got)
	}
}

func TestNewAnthropicInsightRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewAnthropicInsight("", "")
	if err == nil {
		t.Fatal("NewAnthropicInsight() with no key: want error, got nil")
	}
	if !strings.Contains(err.Error(), "API key required") {
		t.Errorf("error = %q, want mention of missing API key", err)
	}
}

func TestNewAnthropicInsightDefaultsModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	g, err := NewAnthropicInsight("", "")
	if err != nil {
		t.Fatalf("NewAnthropicInsight() error = %v", err)
	}
	if string(g.model) != DefaultModel {
		t.Errorf("model = %q, want %q", g.model, DefaultModel)
	}
	if g.maxElapsed != insightMaxElapsed {
		t.Errorf("maxElapsed = %v, want %v", g.maxElapsed, insightMaxElapsed)
	}
}
