package capture

import (
	"context"
	"log/slog"

	"driller/internal/aggregator"
	"driller/internal/annotations"
	"driller/internal/config"
	"driller/internal/logging"
)

// Session is one capture loaded for viewing: its provider, its series, and
// the finalized annotation index.
type Session struct {
	Capture  *Capture
	Provider *annotations.Provider
	Series   []*Series
	Index    *annotations.Index

	store  *Store
	logger *slog.Logger
}

// OpenSession resolves ref and loads the capture. Channel configuration is
// layered: palette defaults by registration order, then the config file,
// then persisted settings.
func (s *Store) OpenSession(ctx context.Context, ref string, cfg *config.Config) (*Session, error) {
	c, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With(logging.String(logging.FieldCaptureID, c.ID))
	session := &Session{
		Capture:  c,
		Provider: annotations.NewProvider(logger),
		store:    s,
		logger:   logger,
	}
	if err := session.load(ctx); err != nil {
		return nil, err
	}
	if err := s.ConfigureChannels(ctx, session.Provider, cfg); err != nil {
		return nil, err
	}
	return session, nil
}

func (se *Session) load(ctx context.Context) error {
	series, err := se.store.LoadSeries(ctx, se.Capture.ID, se.Provider)
	if err != nil {
		return err
	}
	if _, err := se.store.LoadAnnotations(ctx, se.Capture.ID, se.Provider); err != nil {
		return err
	}
	se.Series = series
	se.Index = se.Provider.Finalize()
	se.logger.Debug("capture loaded",
		logging.Int("series", len(series)),
		logging.Int("annotations", se.Index.Len()),
	)
	return nil
}

// Reload re-reads the capture's samples and annotations, keeping channel
// configuration. Callers hand the new series to their view.
func (se *Session) Reload(ctx context.Context) error {
	c, err := se.store.Get(ctx, se.Capture.ID)
	if err != nil {
		return err
	}
	se.Capture = c
	se.Provider.Clear()
	return se.load(ctx)
}

// Aggregators returns the session series as view data sources.
func (se *Session) Aggregators() []aggregator.Aggregator {
	return Aggregators(se.Series)
}

// SaveChannel persists the current configuration of name.
func (se *Session) SaveChannel(ctx context.Context, name string) error {
	return se.store.SaveChannel(ctx, se.Provider, name)
}

// Logger returns the session logger, tagged with the capture id.
func (se *Session) Logger() *slog.Logger { return se.logger }
