package dataset

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tripmatch/internal/recommend"
	"tripmatch/internal/score"
)

// jsonLineHandler is a slog handler writing each record as one JSON object
// with an RFC 3339 "time" field and the record attributes at the top level.
// Level and message are omitted.
type jsonLineHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
}

// newJSONLineHandler creates a handler writing JSON lines to out.
func newJSONLineHandler(out io.Writer) *jsonLineHandler {
	return &jsonLineHandler{out: out, mu: &sync.Mutex{}}
}

// Handle serializes a record to a single JSON line.
func (h *jsonLineHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs)+1)
	attrs["time"] = r.Time.UTC().Format(time.RFC3339Nano)

	add := func(a slog.Attr) bool {
		if a.Key != "" && a.Value.Any() != nil {
			attrs[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)

	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(append(data, '\n'))
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *jsonLineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &jsonLineHandler{out: h.out, mu: h.mu, attrs: merged}
}

// WithGroup is not supported; groups are flattened.
func (h *jsonLineHandler) WithGroup(string) slog.Handler {
	return h
}

// Enabled always returns true.
func (h *jsonLineHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// JsonDatasetRepository collects served recommendations as a JSONL dataset
// rotated and compressed by lumberjack. Useful for offline quality review of
// rule sets.
type JsonDatasetRepository struct {
	lumberjack *lumberjack.Logger // rotating file writer
	logger     *slog.Logger       // structured logger with JSON line output
}

// NewJsonDatasetRepository creates a dataset writer.
// Parameters:
// - file: path of the active dataset file
// - maxSize: size in MB before rotation
// - maxBackups: number of rotated files to keep
func NewJsonDatasetRepository(file string, maxSize, maxBackups int) *JsonDatasetRepository {
	repo := JsonDatasetRepository{}
	repo.lumberjack = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	repo.logger = slog.New(newJSONLineHandler(repo.lumberjack))
	return &repo
}

// Append records one served recommendation: the session (may be empty for
// stateless calls), the query and the ranked results.
func (r *JsonDatasetRepository) Append(session string, q score.Query, results []recommend.Recommendation) {
	r.logger.Info("", "session", session, "query", q, "results", results)
}

// Close flushes and closes the active file.
func (r *JsonDatasetRepository) Close() error {
	return r.lumberjack.Close()
}
