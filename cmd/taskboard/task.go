package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/taskboard/internal/board"
	"github.com/fentz26/taskboard/internal/models"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect and move tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks by column",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <column>",
	Short: "Move a task to another column (pending, doing, done)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var taskColumn string

func init() {
	taskListCmd.Flags().StringVar(&taskColumn, "column", "", "Only list one column (pending, doing, done)")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskMoveCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	columns := models.Columns
	if taskColumn != "" {
		col, ok := models.ParseColumn(taskColumn)
		if !ok {
			return fmt.Errorf("unknown column %q", taskColumn)
		}
		columns = []models.Column{col}
	}

	b, err := openBoard(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer b.close()

	c := b.board.Collection()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tID\tTITLE\tPRIORITY\tDUE")
	for _, col := range columns {
		for _, t := range c.Get(col) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", col, t.ID, t.Title, orDash(string(t.Priority)), orDash(t.DueDate))
		}
	}
	return w.Flush()
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	b, err := openBoard(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer b.close()

	t, col, ok := b.board.Find(args[0])
	if !ok {
		return fmt.Errorf("task %s not found", args[0])
	}

	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Title:       %s\n", t.Title)
	fmt.Printf("Column:      %s\n", col.Title())
	if t.Priority != "" {
		fmt.Printf("Priority:    %s\n", t.Priority)
	}
	if t.DueDate != "" {
		fmt.Printf("Due:         %s\n", t.DueDate)
	}
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	target, ok := models.ParseColumn(args[1])
	if !ok {
		return fmt.Errorf("unknown column %q (want pending, doing or done)", args[1])
	}

	ctx := context.Background()
	b, err := openBoard(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	t, source, found := b.board.Find(args[0])
	if !found {
		return fmt.Errorf("task %s not found", args[0])
	}

	// Same path as the board: a drag session from the task's column, dropped on target.
	tracker := board.NewTracker(b.board, 0)
	tracker.BeginDrag(t, source)
	if !tracker.CompleteDrag(ctx, target) {
		fmt.Printf("Task %s is already in %s\n", t.ID, source.Title())
		return nil
	}

	fmt.Printf("Moved task %s from %s to %s\n", t.ID, source.Title(), target.Title())
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
