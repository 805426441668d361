package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (closing the log
// file, releasing the signal context) run before the process terminates.
// os.Exit() does not run defers, so an integer code is returned first.
func main() {
	os.Exit(runMain())
}

// runMain manages the command line lifecycle and maps the outcome to an exit
// code. Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. Context & Signal Handling
	// -------------------------------------------------------------------------
	// The root context cancels on SIGINT (Ctrl+C) or SIGTERM. Long running
	// subcommands (serve) stop their server and scheduler when it is done.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// -------------------------------------------------------------------------
	// 2. Command Tree
	// -------------------------------------------------------------------------
	// Logging is configured by the root persistent pre-run, once the selected
	// subcommand is known. closeLog releases the log file it may have opened.
	root, closeLog := newRootCmd()
	defer closeLog()

	// -------------------------------------------------------------------------
	// 3. Execution
	// -------------------------------------------------------------------------
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
//
// Logs always go to stderr so that command output on stdout stays clean.
// When ownFile is set (the serve command), logs are also written to a file in
// the user's cache directory. That file belongs to the long running server:
// one-shot commands never open it, so running "gematria" next to a live
// server does not wipe the server's log.
//
// debugMode lowers the level to Debug and adds source locations.
func setupLogging(level slog.Level, debugMode, ownFile bool) io.Closer {
	// 1. Always write to stderr.
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	// 2. The server also keeps a file in the user's cache directory.
	if ownFile {
		if logPath, err := getLogFilePath(); err == nil {
			// O_TRUNC resets logs on restart to prevent indefinite growth.
			f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
			if err == nil {
				writers = append(writers, f)
				logFile = f
			} else {
				fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
			}
		}
	}

	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
