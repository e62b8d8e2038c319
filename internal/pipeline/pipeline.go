// Package pipeline drives NDJSON streams through a backend converter: one
// line in, at most one line out, in arrival order.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/bazelment/yoloswe/agentschema/internal/backend"
	"github.com/bazelment/yoloswe/agentschema/universal"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 10 * 1024 * 1024

// ErrNoConverter is returned by New when Config.Converter is nil.
var ErrNoConverter = errors.New("pipeline: no converter")

// Config configures a Pipeline.
type Config struct {
	Converter backend.Converter
	Logger    *slog.Logger
	// ThreadID and TurnID fill reverse correlation fields the input does
	// not carry. Empty values keep universal.PlaceholderID.
	ThreadID string
	TurnID   string
	// Pretty indents every output value.
	Pretty bool
}

// Stats counts the lines seen by one run.
type Stats struct {
	Lines   int // non-blank input lines
	Written int
	Skipped int
}

// Pipeline converts NDJSON streams. It holds no per-stream state and may be
// reused.
type Pipeline struct {
	conv   backend.Converter
	logger *slog.Logger
	config Config
}

// New creates a Pipeline from config.
func New(config Config) (*Pipeline, error) {
	if config.Converter == nil {
		return nil, ErrNoConverter
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Pipeline{
		conv:   config.Converter,
		logger: config.Logger.With("backend", config.Converter.Name()),
		config: config,
	}, nil
}

// Convert reads backend wire lines from r and writes one universal
// EventConversion per line to w. Undecodable lines are logged and skipped;
// read and write failures end the run. ctx is checked before each line is
// converted, so a read blocked on r returns only once r yields a line or
// fails; callers that need prompt cancellation close r.
func (p *Pipeline) Convert(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	return p.run(ctx, r, w, func(line []byte) ([]byte, bool) {
		conv, err := p.conv.ToUniversal(line)
		if err != nil {
			p.logger.Warn("skipping undecodable line", "error", err)
			return nil, false
		}
		out, err := json.Marshal(conv)
		if err != nil {
			p.logger.Warn("skipping unencodable event", "type", conv.Data.EventType(), "error", err)
			return nil, false
		}
		return out, true
	})
}

// Reverse reads universal events from r and writes one backend wire line per
// event to w. Input lines are either EventConversion envelopes, whose
// session becomes the thread id, or bare tagged events. Lines that do not
// decode and events the backend cannot express are logged and skipped.
// Cancellation is observed between lines, as in Convert.
func (p *Pipeline) Reverse(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	return p.run(ctx, r, w, func(line []byte) ([]byte, bool) {
		ev, session, err := decodeUniversal(line)
		if err != nil {
			p.logger.Warn("skipping undecodable line", "error", err)
			return nil, false
		}
		out, err := p.conv.FromUniversal(ev,
			universal.WithCorrelation(p.config.ThreadID, p.config.TurnID),
			universal.WithCorrelation(session, ""))
		if universal.IsUnsupported(err) {
			p.logger.Warn("skipping event with no backend form", "type", ev.EventType(), "reason", err)
			return nil, false
		}
		if err != nil {
			p.logger.Warn("skipping unencodable event", "type", ev.EventType(), "error", err)
			return nil, false
		}
		return out, true
	})
}

func (p *Pipeline) run(ctx context.Context, r io.Reader, w io.Writer, convert func([]byte) ([]byte, bool)) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	bw := bufio.NewWriter(w)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		out, ok := convert(line)
		if !ok {
			p.logger.Debug("line skipped", "line", lineNo)
			stats.Skipped++
			continue
		}
		if err := p.write(bw, out); err != nil {
			return stats, fmt.Errorf("write line %d: %w", lineNo, err)
		}
		stats.Written++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	p.logger.Debug("stream done", "lines", stats.Lines, "written", stats.Written, "skipped", stats.Skipped)
	return stats, nil
}

func (p *Pipeline) write(w *bufio.Writer, out []byte) error {
	if p.config.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return err
		}
		out = buf.Bytes()
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	// one flush per event
	return w.Flush()
}

// decodeUniversal accepts an EventConversion envelope or a bare event.
func decodeUniversal(line []byte) (universal.EventData, string, error) {
	if gjson.GetBytes(line, "data").IsObject() {
		conv, err := universal.ParseEventConversion(line)
		if err != nil {
			return nil, "", err
		}
		return conv.Data, conv.Session(), nil
	}
	ev, err := universal.ParseEventData(line)
	if err != nil {
		return nil, "", err
	}
	return ev, "", nil
}
