package main

import (
	"fmt"
	"os"

	"github.com/fentz26/taskboard/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "taskboard - a three-column task board",
	Long:  `taskboard keeps Pending, Doing and Done tasks in a persisted snapshot and moves them with drag and drop.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init must work even when the current config is broken
		if cmd == configInitCmd || cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if driverFlag != "" {
			c.Storage.Driver = driverFlag
			if err := c.Validate(); err != nil {
				return err
			}
		}
		cfg = c
		return setupLogging(cfg)
	},
	SilenceUsage: true,
}

var (
	configPath string
	driverFlag string
	debug      bool

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.taskboard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Storage driver override (sqlite, redis, memory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging(c *config.Config) error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
