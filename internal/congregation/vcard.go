package congregation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-gabbai/internal/config"
)

const maxCardFailures = 10

// ImportStats counts what an import did.
type ImportStats struct {
	Processed int
	Imported  int
	Skipped   int
}

// ImportVCards adds the contacts of a vCard stream as congregants of a synagogue.
// Malformed cards, cards without a name or phone and phones already on file are skipped.
func (s *Service) ImportVCards(ctx context.Context, synagogueID string, r io.Reader) (ImportStats, error) {
	var stats ImportStats
	known := make(map[string]bool)
	for _, c := range s.List(synagogueID) {
		known[normalizePhone(c.Phone)] = true
	}

	dec := vcard.NewDecoder(r)
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A broken reader fails forever; give up after a run of errors.
			if failures++; failures >= maxCardFailures {
				return stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompCongregation,
				config.LogKeyError, err)
			continue
		}
		failures = 0
		stats.Processed++

		c, ok := fromCard(card)
		if !ok {
			stats.Skipped++
			slog.Debug(config.MsgSkippedName, config.LogKeyComponent, config.CompCongregation)
			continue
		}
		key := normalizePhone(c.Phone)
		if known[key] {
			stats.Skipped++
			continue
		}
		c.SynagogueID = synagogueID
		if _, err := s.AddCongregant(c); err != nil {
			stats.Skipped++
			slog.Debug(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompCongregation,
				config.LogKeyName, c.FullName(),
				config.LogKeyError, err)
			continue
		}
		known[key] = true
		stats.Imported++
	}
	return stats, nil
}

// fromCard maps a vCard to a congregant. N wins over FN for the name parts.
func fromCard(card vcard.Card) (Congregant, bool) {
	var c Congregant
	if n := card.Name(); n != nil && (n.GivenName != "" || n.FamilyName != "") {
		c.FirstName, c.LastName = n.GivenName, n.FamilyName
	} else if fn := card.Get(config.VCardFN); fn != nil {
		fields := strings.Fields(fn.Value)
		if len(fields) > 0 {
			c.LastName = fields[len(fields)-1]
			c.FirstName = strings.Join(fields[:len(fields)-1], " ")
		}
	}
	if c.FirstName == "" && c.LastName == "" {
		return Congregant{}, false
	}
	if c.FirstName == "" {
		c.FirstName, c.LastName = c.LastName, ""
	}

	tels := card.Values(config.VCardTel)
	if len(tels) == 0 {
		return Congregant{}, false
	}
	c.Phone = tels[0]
	if len(tels) > 1 {
		c.SecondaryPhone = tels[1]
	}
	c.Email = card.PreferredValue(config.VCardEmail)
	c.Notes = card.PreferredValue(config.VCardNote)
	if a := card.Address(); a != nil && (a.StreetAddress != "" || a.Locality != "") {
		c.Address = &Address{Street: a.StreetAddress, City: a.Locality, PostalCode: a.PostalCode}
	}
	return c, true
}

func normalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SyncConfig says where a synagogue's address book lives.
type SyncConfig struct {
	Mode        string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath   string
	WebURL      string
	WebUser     string
	WebPass     string
	SynagogueID string
}

// Importer pulls an address book from a file or the network into a Service.
type Importer struct {
	Service *Service
	Fetcher Fetcher
}

// Run opens the configured source and imports it.
func (im *Importer) Run(ctx context.Context, cfg SyncConfig) (ImportStats, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompCongregation,
		config.LogKeyMode, cfg.Mode,
		config.LogKeySynagogue, cfg.SynagogueID,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := im.open(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return ImportStats{}, ctx.Err()
		}
		return ImportStats{}, fmt.Errorf("%s: %w", config.ErrDirectorySync, err)
	}
	defer func() { _ = reader.Close() }()

	stats, err := im.Service.ImportVCards(ctx, cfg.SynagogueID, reader)
	if err != nil {
		return stats, err
	}
	log.Info(config.MsgDirectoryDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Processed),
			slog.Int(config.LogKeyImported, stats.Imported),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return stats, nil
}

func (im *Importer) open(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}
