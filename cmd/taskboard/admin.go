package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/fentz26/taskboard/internal/config"
	"github.com/fentz26/taskboard/internal/slot"
	"github.com/fentz26/taskboard/internal/store"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "0.1.0"

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the board with the seed tasks",
	RunE:  runReset,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the persisted board snapshot as JSON",
	RunE:  runExport,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded moves (sqlite driver only)",
	RunE:  runHistory,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  runConfigInit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of taskboard",
	Run:   runVersion,
}

var (
	historyTask  string
	historyLimit int
	configForce  bool
)

func init() {
	historyCmd.Flags().StringVar(&historyTask, "task", "", "Only show moves of this task")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of moves")

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	b, err := openBoard(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	if err := b.board.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset board: %w", err)
	}
	fmt.Println("Board reset to the seed tasks")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	b, err := openBoard(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer b.close()

	data, err := b.board.Snapshot()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(os.Stdout)
	return err
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.Storage.Driver != config.DriverSQLite {
		return errors.New("move history is only recorded by the sqlite driver")
	}

	ctx := context.Background()
	b, err := openBoard(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	return printHistory(ctx, os.Stdout, b.db, cfg.Storage.Key, historyTask, historyLimit)
}

// printHistory writes when the board was last saved and the recorded moves,
// newest first.
func printHistory(ctx context.Context, out io.Writer, db *store.Store, key, taskID string, limit int) error {
	saved, err := db.SlotUpdatedAt(ctx, key)
	switch {
	case errors.Is(err, slot.ErrEmpty):
		fmt.Fprintln(out, "Last saved: never")
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "Last saved: %s\n", saved.Local().Format("2006-01-02 15:04:05"))
	}

	moves, err := db.ListMoves(ctx, taskID, limit)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTASK\tFROM\tTO\tHASH")
	for _, m := range moves {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.MovedAt.Local().Format("2006-01-02 15:04:05"), m.TaskID, m.From, m.To, shortHash(m.InputHash))
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("taskboard version %s\n", Version)
	fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
