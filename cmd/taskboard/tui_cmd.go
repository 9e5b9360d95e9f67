package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fentz26/taskboard/internal/board"
	"github.com/fentz26/taskboard/internal/tui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive board",
	Long: `Launch the three-column board. Pick up a task with space, move to
another column and press space again to drop it there.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log lines would corrupt the alt screen, send them to a file instead.
	logPath := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	log.SetOutput(f)

	ctx := context.Background()
	b, err := openBoard(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	tracker := board.NewTracker(b.board, cfg.Board.DragTimeout)
	return tui.New(ctx, b.board, tracker).Run()
}
