package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/tools"

	"github.com/nash-labs/nash-mcp/internal/config"
	"github.com/nash-labs/nash-mcp/internal/executil"
	"github.com/nash-labs/nash-mcp/internal/secrets"
	"github.com/nash-labs/nash-mcp/internal/task"
)

// Function variables for LLM constructors to allow mocking in tests
var (
	newOpenAIFn    = openai.New
	newAnthropicFn = anthropic.New
)

// taskTool exposes one saved task as a langchaingo tool. Calling it executes
// the stored script through the execution gateway; for shell tasks the
// agent's input is appended as extra arguments.
type taskTool struct {
	task   *task.Task
	runner *executil.Runner
}

func (t *taskTool) Name() string {
	return t.task.Name
}

func (t *taskTool) Description() string {
	if t.task.Description == "" {
		return fmt.Sprintf("Run the saved %s task %q.", t.task.ScriptType, t.task.Name)
	}
	return fmt.Sprintf("%s (%s script)", t.task.Description, t.task.ScriptType)
}

func (t *taskTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("Agent executing task", "task", t.task.Name, "input", input)

	var res executil.Result
	if t.task.ScriptType == task.ScriptShell && input != "" {
		res = t.runner.RunCommand(ctx, t.task.Script+" "+input)
	} else {
		res = t.runner.RunTask(ctx, t.task)
	}

	if !res.Success {
		slog.Error("Agent task failed", "task", t.task.Name, "exit_code", res.ExitCode, "stderr", res.Stderr)
		if res.Err != "" {
			return fmt.Sprintf("Error executing task %s: %s", t.task.Name, res.Err), nil
		}
		return fmt.Sprintf("Task %s failed (exit code %d). Stderr: %s Stdout: %s", t.task.Name, res.ExitCode, res.Stderr, res.Stdout), nil
	}

	slog.Info("Agent task succeeded", "task", t.task.Name)
	if res.Stderr != "" {
		return fmt.Sprintf("Stdout:\n%s\nStderr:\n%s", res.Stdout, res.Stderr), nil
	}
	return res.Stdout, nil
}

var _ tools.Tool = (*taskTool)(nil)

var (
	provider    string
	modelName   string
	temperature float64
	maxTokens   int
	agentCmd    = &cobra.Command{
		Use:   "agent [prompt]",
		Short: "Run a Langchain agent with the saved tasks as tools.",
		Long:  `The agent command runs a REACT agent whose tool set is the saved task repository; each task executes through the same gateway the MCP tools use.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runAgent,
	}
)

func init() {
	agentCmd.Flags().StringVar(&provider, "provider", "anthropic", "LLM provider (e.g., anthropic, openai)")
	agentCmd.Flags().StringVar(&modelName, "model-name", "claude-3-sonnet-20240229", "Name of the model to use")
	agentCmd.Flags().Float64Var(&temperature, "temperature", 0.7, "Sampling temperature for the LLM (0.0-1.0)")
	agentCmd.Flags().IntVar(&maxTokens, "max-tokens", 256, "Maximum number of tokens to generate")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sec, err := secrets.Load(cfg.SecretsPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	store := task.NewStore(cfg.TasksPath)
	records, err := loadAllTasks(store)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no saved tasks to expose as tools; save some with the save_nash_task tool first")
	}
	slog.Info("Loaded task repository", "task_count", len(records))

	llm, err := buildLLM()
	if err != nil {
		return err
	}

	runner := executil.NewRunner(cfg.BasePath, cfg.Python, sec)
	langchainTools := make([]tools.Tool, 0, len(records))
	for _, t := range records {
		tool := &taskTool{task: t, runner: runner}
		langchainTools = append(langchainTools, tool)
		slog.Debug("Created tool", "name", tool.Name(), "description", tool.Description())
	}

	executor, err := agents.Initialize(llm, langchainTools, agents.ZeroShotReactDescription)
	if err != nil {
		return fmt.Errorf("initialize agent: %w", err)
	}

	var callOpts []chains.ChainCallOption
	if temperature > 0.0 {
		callOpts = append(callOpts, chains.WithTemperature(temperature))
	}
	if maxTokens > 0 {
		callOpts = append(callOpts, chains.WithMaxTokens(maxTokens))
	}

	answer, err := chains.Run(cmd.Context(), executor, prompt, callOpts...)
	if err != nil {
		return fmt.Errorf("agent run: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func buildLLM() (llms.Model, error) {
	switch provider {
	case "openai":
		llm, err := newOpenAIFn(
			openai.WithToken(getOpenAIToken()),
			openai.WithModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("initialize OpenAI LLM: %w", err)
		}
		slog.Info("OpenAI LLM client initialized", "model", modelName)
		return llm, nil
	case "anthropic":
		llm, err := newAnthropicFn(
			anthropic.WithToken(getAnthropicToken()),
			anthropic.WithModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("initialize Anthropic LLM: %w", err)
		}
		slog.Info("Anthropic LLM client initialized", "model", modelName)
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", provider)
	}
}

func getOpenAIToken() string {
	token := os.Getenv("OPENAI_API_KEY")
	if token == "" {
		slog.Warn("OPENAI_API_KEY environment variable not set. Using placeholder.")
		return "sk-your-api-key-placeholder"
	}
	return token
}

func getAnthropicToken() string {
	token := os.Getenv("ANTHROPIC_API_KEY")
	if token == "" {
		slog.Warn("ANTHROPIC_API_KEY environment variable not set. Using placeholder.")
		return "anthropic-api-key-placeholder"
	}
	return token
}
