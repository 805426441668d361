package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-gabbai/internal/config"
)

// newRootCmd assembles the command tree. The returned func closes the log
// file opened by the persistent pre-run, if any.
func newRootCmd() (*cobra.Command, func()) {
	var (
		debug     bool
		logCloser io.Closer
	)

	root := &cobra.Command{
		Use:           config.CmdRoot,
		Short:         config.CmdDescRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// The server logs its lifecycle at Info and owns the log file.
			// One-shot tools only report warnings, on stderr.
			server := cmd.Name() == config.CmdServe
			level := slog.LevelWarn
			if server {
				level = slog.LevelInfo
			}
			logCloser = setupLogging(level, debug, server)
			logStartupInfo()
		},
	}
	root.PersistentFlags().BoolVar(&debug, config.FlagDebug, false, config.FlagDescDebug)

	root.AddCommand(
		newServeCmd(),
		newConvertCmd(),
		newGematriaCmd(),
		newParashaCmd(),
		newMonthCmd(),
		newSecretCmd(),
		newVersionCmd(),
	)

	return root, func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.CmdDescVer,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
