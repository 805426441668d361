// Package worker schedules the background jobs: rebuilding every active
// synagogue's feed and importing the configured address book.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tartampluch/go-gabbai/internal/admin"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/congregation"
	"github.com/tartampluch/go-gabbai/internal/feed"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/i18n"
)

// Synagogues lists the tenants whose feeds are published.
type Synagogues interface {
	ActiveSynagogues() []admin.Synagogue
}

// Publisher receives rendered feeds.
type Publisher interface {
	Update(slug string, data []byte)
}

type job struct {
	name string
	fn   func(context.Context) error
}

// Worker runs the scheduled jobs.
type Worker struct {
	Settings   config.Settings
	Synagogues Synagogues
	Generator  *feed.Generator
	Publisher  Publisher
	Importer   *congregation.Importer
	Clock      hebdate.Clock

	// Messages words the import report in the operator's language.
	// Without it only the structured counters are logged.
	Messages *i18n.Localizer

	// DirectoryPassword is the address book password read from the keyring.
	DirectoryPassword string

	runs atomic.Int64
}

// Runs reports how many feed refreshes have completed.
func (w *Worker) Runs() int64 {
	return w.runs.Load()
}

// Run starts the scheduler, runs both jobs immediately, then repeats them
// every refresh interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedulerCreate, err)
	}

	interval := w.Settings.Interval()
	jobs := []job{{"feeds", w.RefreshFeeds}}
	if w.Settings.SourceMode() != config.SourceModeNone && w.Importer != nil {
		jobs = append(jobs, job{"directory", w.SyncDirectory})
	}

	for _, j := range jobs {
		_, err := s.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				if err := j.fn(ctx); err != nil && ctx.Err() == nil {
					log.Error(config.MsgSyncFailed, config.LogKeyName, j.name, config.LogKeyError, err)
				}
			}),
			gocron.WithName(j.name),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrSchedulerJob, err)
		}
	}

	s.Start()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval, config.LogKeyCount, len(jobs))

	<-ctx.Done()
	log.Info(config.MsgWorkerStop)
	return s.Shutdown()
}

// RefreshFeeds rebuilds and publishes the feed of every active synagogue.
// A synagogue without its own language is served in Settings.Language.
// A failing synagogue does not stop the others.
func (w *Worker) RefreshFeeds(ctx context.Context) error {
	now := w.now()
	start, end, err := feed.Range(now)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFeedBuild, err)
	}

	var errs []error
	published := 0
	for _, syn := range w.Synagogues.ActiveSynagogues() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lang := syn.Settings.Language
		if lang == "" {
			lang = w.Settings.Language
		}
		data, _, err := w.Generator.Build(ctx, feed.Request{
			Slug:     syn.Slug,
			Name:     syn.DisplayName(),
			Language: lang,
			IL:       w.Settings.IsIsrael(),
			Start:    start,
			End:      end,
			Reminder: w.Settings.ReminderTrigger,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", syn.Slug, err))
			continue
		}
		w.Publisher.Update(syn.Slug, data)
		published++
	}

	w.runs.Add(1)
	slog.Info(config.MsgFeedsRefresh,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyCount, published)
	return errors.Join(errs...)
}

// SyncDirectory imports the configured address book into its synagogue and
// reports how many congregants were added, worded by Messages when set.
func (w *Worker) SyncDirectory(ctx context.Context) error {
	mode := w.Settings.SourceMode()
	if mode == config.SourceModeNone {
		return nil
	}
	if w.Importer == nil {
		return errors.New(config.ErrFetcherMissing)
	}
	stats, err := w.Importer.Run(ctx, congregation.SyncConfig{
		Mode:        mode,
		LocalPath:   w.Settings.DirectoryFile,
		WebURL:      w.Settings.DirectoryURL,
		WebUser:     w.Settings.DirectoryUser,
		WebPass:     w.DirectoryPassword,
		SynagogueID: w.Settings.DirectorySynagogue,
	})
	if err != nil {
		return err
	}

	msg := config.MsgDirectoryDone
	if w.Messages != nil {
		msg = w.Messages.Imported(stats.Imported)
	}
	slog.Info(msg,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeySynagogue, w.Settings.DirectorySynagogue,
		config.LogKeyImported, stats.Imported,
		config.LogKeyCount, len(w.Importer.Service.List(w.Settings.DirectorySynagogue)),
	)
	return nil
}

func (w *Worker) now() time.Time {
	if w.Clock == nil {
		return hebdate.RealClock{}.Now()
	}
	return w.Clock.Now()
}
