package capture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"driller/internal/annotations"
	"driller/internal/logging"
)

// Capture is the stored summary of one recorded session.
type Capture struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Source          string    `json:"source,omitempty"`
	BeginFrame      int64     `json:"begin_frame"`
	EndFrame        int64     `json:"end_frame"`
	Channels        []string  `json:"channels"`
	SampleCount     int       `json:"sample_count"`
	AnnotationCount int       `json:"annotation_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShortID returns the first eight characters of the ID, enough to resolve
// the capture in practice.
func (c Capture) ShortID() string {
	if len(c.ID) <= 8 {
		return c.ID
	}
	return c.ID[:8]
}

// FrameCount returns the number of frames spanned by the capture.
func (c Capture) FrameCount() int64 {
	if c.EndFrame < c.BeginFrame {
		return 0
	}
	return c.EndFrame - c.BeginFrame + 1
}

const captureColumns = `c.id, c.name, c.source, c.begin_frame, c.end_frame, c.created_at,
	(SELECT COUNT(1) FROM samples s WHERE s.capture_id = c.id),
	(SELECT COUNT(1) FROM annotations a WHERE a.capture_id = c.id)`

func scanCapture(scanner interface{ Scan(dest ...any) error }) (*Capture, error) {
	var (
		c          Capture
		source     sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&c.ID,
		&c.Name,
		&source,
		&c.BeginFrame,
		&c.EndFrame,
		&createdRaw,
		&c.SampleCount,
		&c.AnnotationCount,
	); err != nil {
		return nil, err
	}
	c.Source = source.String
	if created, err := parseTimeString(createdRaw); err == nil {
		c.CreatedAt = created
	}
	return &c, nil
}

// Create stores script as a new capture in one transaction.
func (s *Store) Create(ctx context.Context, script *Script) (*Capture, error) {
	ctx = ensureContext(ctx)
	if script == nil {
		return nil, fmt.Errorf("%w: nil script", ErrInvalidScript)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	begin, end := script.Bounds()
	id := uuid.NewString()
	now := time.Now().UTC().Format(timestampLayout)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO captures (id, name, source, begin_frame, end_frame, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, script.Name, nullableString(script.Source), begin, end, now,
		); err != nil {
			return fmt.Errorf("insert capture: %w", err)
		}

		sampleStmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (capture_id, channel, frame, value) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare sample insert: %w", err)
		}
		defer sampleStmt.Close()

		for position, ch := range script.Channels {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO channels (capture_id, position, name, crc) VALUES (?, ?, ?, ?)`,
				id, position, ch.Name, int64(annotations.ChannelCRC(ch.Name)),
			); err != nil {
				return fmt.Errorf("insert channel %q: %w", ch.Name, err)
			}
			for _, frame := range ch.Samples.Frames() {
				if _, err := sampleStmt.ExecContext(ctx, id, position, frame, ch.Samples[frame]); err != nil {
					return fmt.Errorf("insert sample %q@%d: %w", ch.Name, frame, err)
				}
			}
		}

		for seq, a := range script.Annotations {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO annotations (capture_id, seq, event_index, frame_index, text, channel) VALUES (?, ?, ?, ?, ?, ?)`,
				id, seq, a.Event, a.Frame, a.Text, a.Channel,
			); err != nil {
				return fmt.Errorf("insert annotation %d: %w", seq, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("capture stored",
		logging.String(logging.FieldCaptureID, id),
		logging.String("name", script.Name),
		logging.Int("channels", len(script.Channels)),
		logging.Int("annotations", len(script.Annotations)),
		logging.Int64("begin_frame", begin),
		logging.Int64("end_frame", end),
	)
	return s.Get(ctx, id)
}

// Get fetches a capture by its full ID.
func (s *Store) Get(ctx context.Context, id string) (*Capture, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+captureColumns+` FROM captures c WHERE c.id = ?`, id)
	c, err := scanCapture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get capture: %w", err)
	}
	if c.Channels, err = s.channelNames(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve finds a capture by full ID, unique ID prefix, or exact name.
func (s *Store) Resolve(ctx context.Context, ref string) (*Capture, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if c, err := s.Get(ctx, ref); err == nil {
		return c, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	lookups := []struct {
		query string
		arg   string
	}{
		{`SELECT id FROM captures WHERE id LIKE ? ESCAPE '\'`, escapeLike(ref) + "%"},
		{`SELECT id FROM captures WHERE name = ?`, ref},
	}
	for _, lookup := range lookups {
		ids, err := s.queryIDs(ctx, lookup.query, lookup.arg)
		if err != nil {
			return nil, err
		}
		switch len(ids) {
		case 0:
			continue
		case 1:
			return s.Get(ctx, ids[0])
		default:
			return nil, fmt.Errorf("%w: %q matches %d captures", ErrAmbiguous, ref, len(ids))
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// List returns every capture, newest first.
func (s *Store) List(ctx context.Context) ([]*Capture, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+captureColumns+` FROM captures c ORDER BY c.created_at DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	var captures []*Capture
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		captures = append(captures, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate captures: %w", err)
	}
	rows.Close()

	for _, c := range captures {
		if c.Channels, err = s.channelNames(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return captures, nil
}

// Remove deletes a capture with its channels, samples, and annotations.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM captures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove capture: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove capture: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.logger.Info("capture removed", logging.String(logging.FieldCaptureID, id))
	return nil
}

// LoadAnnotations adds the capture's annotations to provider in stored
// order. The provider is not finalized.
func (s *Store) LoadAnnotations(ctx context.Context, id string, provider *annotations.Provider) (int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_index, frame_index, text, channel FROM annotations WHERE capture_id = ? ORDER BY seq`, id)
	if err != nil {
		return 0, fmt.Errorf("load annotations: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			event, frame  int64
			text, channel string
		)
		if err := rows.Scan(&event, &frame, &text, &channel); err != nil {
			return count, fmt.Errorf("scan annotation: %w", err)
		}
		provider.AddAnnotation(annotations.NewAnnotation(event, frame, text, channel))
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("iterate annotations: %w", err)
	}
	return count, nil
}

func (s *Store) channelNames(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM channels WHERE capture_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve capture: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan capture id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
