// Command kinematics replays recorded landmark streams through the feature
// extraction engine and prints the resulting feature vector.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bharatha77/Stroke-Recovery-System/internal/config"
	"github.com/bharatha77/Stroke-Recovery-System/internal/kinematics"
	"github.com/bharatha77/Stroke-Recovery-System/internal/monitoring"
	"github.com/bharatha77/Stroke-Recovery-System/internal/version"
)

var (
	configPath string
	debug      bool
	pretty     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kinematics",
		Short:        "Kinematic feature extraction from landmark streams",
		Version:      version.String(),
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			monitoring.SetDebug(debug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "kinematics config file (.json or .toml); built-in defaults when empty")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log per-frame diagnostics")

	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newChannelsCmd())

	return rootCmd
}

func loadConfig() (kinematics.Config, error) {
	if configPath == "" {
		return kinematics.DefaultConfig(), nil
	}
	cfg, err := config.LoadKinematicsConfig(configPath)
	if err != nil {
		return kinematics.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return kinematics.ConfigFromTuning(cfg), nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [frames.jsonl]",
		Short: "Replay a JSON-lines landmark recording and print its features",
		Long: "Reads one frame per line (\"-\" or no argument reads stdin), runs a single\n" +
			"recording session over them and prints the session summary and features as JSON.",
		Args: cobra.MaximumNArgs(1),
		RunE: runReplayCmd,
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open frames: %w", err)
		}
		defer f.Close()
		in = f
	}

	session := kinematics.NewSessionController(cfg)
	res, err := replay(in, session, time.Now())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the feature names in schema order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range kinematics.FeatureNames() {
				if _, err := fmt.Fprintln(out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newChannelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the raw per-frame channels and their units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, ch := range kinematics.AllChannels {
				if _, err := fmt.Fprintf(out, "%-20s %s\n", ch, ch.Unit()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
