package cmd

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nash-labs/nash-mcp/internal/config"
	"github.com/nash-labs/nash-mcp/internal/task"
	"github.com/nash-labs/nash-mcp/internal/tui"
)

var tasksJSON bool

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Browse the saved tasks in an interactive viewer.",
	Long:  `tasks opens the saved task repository in a TUI; --json dumps the full records instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		store := task.NewStore(cfg.TasksPath)
		records, err := loadAllTasks(store)
		if err != nil {
			return err
		}

		if tasksJSON {
			byName := make(map[string]*task.Task, len(records))
			for _, t := range records {
				byName[t.Name] = t
			}
			out, err := json.MarshalIndent(byName, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(records) == 0 {
			fmt.Println("No tasks saved yet.")
			return nil
		}

		program := tea.NewProgram(tui.NewModel(records))
		_, err = program.Run()
		return err
	},
}

func loadAllTasks(store *task.Store) ([]*task.Task, error) {
	summaries, err := store.List()
	if err != nil {
		return nil, err
	}
	records := make([]*task.Task, 0, len(summaries))
	for _, s := range summaries {
		t, err := store.Get(s.Name)
		if err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, nil
}

func init() {
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Print the task records as JSON instead of opening the TUI")
	rootCmd.AddCommand(tasksCmd)
}
