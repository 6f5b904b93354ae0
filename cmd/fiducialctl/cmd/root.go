package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/fiducials.go/pkg/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cfg := DefaultConfig()
	cmd := &cobra.Command{
		Use:           "fiducialctl",
		Short:         "a CLI to inspect and edit DICOM spatial fiducials",
		Long:          "inspect, query and edit the fiducial sets of DICOM Spatial Fiducials files",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				loaded, err := LoadConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers, _ = cmd.Flags().GetInt("workers")
			}

			var level slog.Level
			err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Log.Level)))
			if err != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = os.Stderr
			if cfg.Log.File != nil && cfg.Log.File.Filename != "" {
				w = logging.FileWriter(*cfg.Log.File)
			}
			slog.SetDefault(logging.Logger(w, cfg.Log.JSON, level))
			if err != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", cfg.Log.Level, "error", err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewInspectCmd(ctx, &cfg),
		NewQueryCmd(ctx),
		NewAddGroupCmd(ctx, &cfg),
		NewAddPointCmd(ctx),
		NewRemovePointCmd(ctx),
		NewRemoveGroupCmd(ctx),
		NewNameGroupsCmd(ctx),
		NewConvertCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("config", "", "YAML config file")
	pf.Int("workers", cfg.Workers, "files processed concurrently")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
