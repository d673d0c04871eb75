package capture

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"driller/internal/annotations"
)

// Export rebuilds the script of a stored capture. Importing the result
// yields an equivalent capture.
func (s *Store) Export(ctx context.Context, id string) (*Script, error) {
	ctx = ensureContext(ctx)
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(ctx, c.ID, annotations.NewProvider(nil))
	if err != nil {
		return nil, err
	}

	begin, end := c.BeginFrame, c.EndFrame
	script := &Script{
		Name:        c.Name,
		Begin:       &begin,
		End:         &end,
		Channels:    make([]ScriptChannel, 0, len(series)),
		Annotations: []ScriptAnnotation{},
	}
	for _, ser := range series {
		samples := make(Samples, len(ser.values))
		for frame, value := range ser.values {
			samples[frame] = value
		}
		script.Channels = append(script.Channels, ScriptChannel{Name: ser.Channel, Samples: samples})
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT event_index, frame_index, text, channel FROM annotations WHERE capture_id = ? ORDER BY seq`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("export annotations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a ScriptAnnotation
		if err := rows.Scan(&a.Event, &a.Frame, &a.Text, &a.Channel); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		script.Annotations = append(script.Annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return script, nil
}

// WriteYAML encodes the script in the format ParseScript reads.
func (s *Script) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("encode script: %w", err)
	}
	return encoder.Close()
}
