package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-gabbai/internal/admin"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/congregation"
	"github.com/tartampluch/go-gabbai/internal/feed"
	"github.com/tartampluch/go-gabbai/internal/i18n"
	"github.com/tartampluch/go-gabbai/internal/server"
	"github.com/tartampluch/go-gabbai/internal/worker"
)

// newServeCmd runs the feed server. Settings come from the environment
// (and an optional .env file); --seed loads the demo tenants.
func newServeCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdDescServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			if seed {
				settings.Seed = true
			}
			return serve(cmd.Context(), settings)
		},
	}
	cmd.Flags().BoolVar(&seed, config.FlagSeed, false, config.FlagDescSeed)
	return cmd
}

// serve wires the directory, the feed generator, the HTTP server and the
// scheduler, then blocks until ctx is cancelled or the server fails.
func serve(ctx context.Context, s config.Settings) error {
	// -------------------------------------------------------------------------
	// 1. Tenants
	// -------------------------------------------------------------------------
	// The directory starts empty unless the demo data is requested.
	dir := admin.NewMemoryDirectory()
	if s.Seed {
		if _, err := dir.Seed(); err != nil {
			return err
		}
	}

	// The address book is imported into one synagogue. A name that matches
	// no tenant would import congregants nobody can see, so refuse to start.
	if s.SourceMode() != config.SourceModeNone {
		syn, err := directorySynagogue(dir, s.DirectorySynagogue)
		if err != nil {
			return err
		}
		s.DirectorySynagogue = syn.ID
	}

	// -------------------------------------------------------------------------
	// 2. Localization & Secrets
	// -------------------------------------------------------------------------
	tr, err := i18n.New()
	if err != nil {
		return err
	}

	password, err := config.DirectoryPassword(s.DirectoryUser)
	if err != nil {
		return err
	}

	// -------------------------------------------------------------------------
	// 3. Dependency Injection
	// -------------------------------------------------------------------------
	srv := server.NewFeedServer(s.BindAddr, s.Port, func(slug string) bool {
		_, err := dir.BySlug(slug)
		return err == nil
	})

	members := congregation.NewMemoryService()

	w := &worker.Worker{
		Settings:   s,
		Synagogues: dir,
		Generator: &feed.Generator{
			Clock:         clock,
			Source:        engine,
			FormatSummary: tr.FormatSummary,
			FormatCalName: tr.FormatCalName,
		},
		Publisher: srv,
		Importer: &congregation.Importer{
			Service: members,
			Fetcher: congregation.NewHTTPFetcher(),
		},
		Clock:             clock,
		Messages:          tr.Localizer(s.Language),
		DirectoryPassword: password,
	}

	// -------------------------------------------------------------------------
	// 4. Lifecycle
	// -------------------------------------------------------------------------
	// The server blocks; the scheduler runs beside it and stops with it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerDone := make(chan error, config.ChannelBufferSize)
	go func() { workerDone <- w.Run(ctx) }()

	err = srv.Start(ctx)
	cancel()
	if werr := <-workerDone; werr != nil && err == nil {
		err = werr
	}
	if err == nil {
		slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	}
	return err
}

// directorySynagogue resolves the import target by slug or by ID.
func directorySynagogue(dir *admin.Directory, ref string) (admin.Synagogue, error) {
	if ref == "" {
		return admin.Synagogue{}, errors.New(config.ErrUnknownTenant)
	}
	if syn, err := dir.BySlug(ref); err == nil {
		return syn, nil
	}
	system := admin.NewSession(&admin.User{Role: admin.RoleSuperAdmin})
	syn, err := dir.Synagogue(system, ref)
	if err != nil {
		return admin.Synagogue{}, fmt.Errorf("%s: %q: %w", config.ErrUnknownTenant, ref, err)
	}
	return syn, nil
}
