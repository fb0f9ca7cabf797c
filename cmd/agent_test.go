package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/nash-labs/nash-mcp/internal/executil"
	"github.com/nash-labs/nash-mcp/internal/task"
)

func newAgentTestRunner(t *testing.T) *executil.Runner {
	t.Helper()
	return executil.NewRunner(t.TempDir(), "", nil)
}

func TestTaskToolCall(t *testing.T) {
	tool := &taskTool{
		task: &task.Task{
			Name:       "greet",
			Script:     "echo hello",
			ScriptType: task.ScriptShell,
		},
		runner: newAgentTestRunner(t),
	}

	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestTaskToolCallAppendsInputForShell(t *testing.T) {
	tool := &taskTool{
		task: &task.Task{
			Name:       "echoer",
			Script:     "echo",
			ScriptType: task.ScriptShell,
		},
		runner: newAgentTestRunner(t),
	}

	out, err := tool.Call(context.Background(), "extra words")
	require.NoError(t, err)
	assert.Contains(t, out, "extra words")
}

func TestTaskToolCallReportsFailureAsText(t *testing.T) {
	tool := &taskTool{
		task: &task.Task{
			Name:       "failing",
			Script:     "exit 2",
			ScriptType: task.ScriptShell,
		},
		runner: newAgentTestRunner(t),
	}

	// Tool failures are reported back to the agent as text, not as errors,
	// so the LLM can react to them.
	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "exit code 2")
}

func TestTaskToolDescription(t *testing.T) {
	tool := &taskTool{task: &task.Task{
		Name:        "weather",
		Description: "Get the forecast",
		ScriptType:  task.ScriptPython,
	}}
	assert.Contains(t, tool.Description(), "Get the forecast")
	assert.Contains(t, tool.Description(), "python")

	bare := &taskTool{task: &task.Task{Name: "bare", ScriptType: task.ScriptShell}}
	assert.Contains(t, bare.Description(), "bare")
}

func TestBuildLLMProviderSelection(t *testing.T) {
	origProvider, origModel := provider, modelName
	origOpenAI, origAnthropic := newOpenAIFn, newAnthropicFn
	t.Cleanup(func() {
		provider, modelName = origProvider, origModel
		newOpenAIFn, newAnthropicFn = origOpenAI, origAnthropic
	})

	var openAICalled, anthropicCalled bool
	newOpenAIFn = func(opts ...openai.Option) (*openai.LLM, error) {
		openAICalled = true
		return &openai.LLM{}, nil
	}
	newAnthropicFn = func(opts ...anthropic.Option) (*anthropic.LLM, error) {
		anthropicCalled = true
		return &anthropic.LLM{}, nil
	}

	provider = "openai"
	modelName = "gpt-4o"
	_, err := buildLLM()
	require.NoError(t, err)
	assert.True(t, openAICalled)

	provider = "anthropic"
	_, err = buildLLM()
	require.NoError(t, err)
	assert.True(t, anthropicCalled)

	provider = "cohere"
	_, err = buildLLM()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}
