package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Mateuzkl/pic-editor/pkg/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picctl",
		Short: "a CLI to inspect and edit Tibia .pic image archives",
		Long:  "picctl parses .pic archives, exports pictures to PNG and imports edited PNGs back",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")

			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", err)
			}

			if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
				slog.SetDefault(logging.RotatingLogger(logFile, true, level))
			} else {
				slog.SetDefault(logging.Logger(os.Stdout, false, level))
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewAnalyzeCmd(ctx),
		NewExportCmd(ctx),
		NewImportCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "Log to this file with rotation instead of stdout")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
	return cmd
}
