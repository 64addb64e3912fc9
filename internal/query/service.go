package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/scout/internal/rpc"
)

// DefaultLimit caps ListAll when no limit is given.
const DefaultLimit = 100

// Executor runs a model method. *rpc.Client implements it.
type Executor interface {
	Execute(ctx context.Context, model, method string, args []any, opts rpc.Options) (json.RawMessage, error)
}

// Service runs searches for views. It owns no state beyond its
// collaborators and is safe for concurrent use.
type Service struct {
	exec     Executor
	notifier Notifier
	log      zerolog.Logger
}

// New creates a Service. A nil notifier drops notifications.
func New(exec Executor, notifier Notifier, log zerolog.Logger) *Service {
	if notifier == nil {
		notifier = discard{}
	}
	return &Service{
		exec:     exec,
		notifier: notifier,
		log:      log,
	}
}

// WithNotifier returns a copy of the service reporting to n.
func (s *Service) WithNotifier(n Notifier) *Service {
	cp := *s
	if n == nil {
		n = discard{}
	}
	cp.notifier = n
	return &cp
}

// SearchByName returns records whose name or display_name contains text,
// ignoring case. text must not be blank; the search controller enforces a
// minimum length before calling.
func (s *Service) SearchByName(ctx context.Context, model, text string, fields []string) []Record {
	return s.Search(ctx, model, NameMatch(text), rpc.Options{Fields: fields})
}

// ListAll returns up to limit records of model. limit <= 0 uses
// DefaultLimit.
func (s *Service) ListAll(ctx context.Context, model string, fields []string, limit int) []Record {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.Search(ctx, model, MatchAll, rpc.Options{Fields: fields, Limit: limit})
}

// Search runs search_read with an arbitrary domain. Any failure is
// reported through the notifier and yields an empty result.
func (s *Service) Search(ctx context.Context, model string, domain Domain, opts rpc.Options) []Record {
	raw, err := s.exec.Execute(ctx, model, "search_read", []any{Encode(domain)}, opts)
	if err != nil {
		s.fail(model, err)
		return []Record{}
	}
	if raw == nil {
		return []Record{}
	}

	var rows []Record
	if err := json.Unmarshal(raw, &rows); err != nil {
		s.fail(model, fmt.Errorf("decode %s records: %w", model, err))
		return []Record{}
	}

	records := make([]Record, 0, len(rows))
	for i, r := range rows {
		if _, ok := r.ID(); !ok {
			s.log.Warn().Str("model", model).Int("index", i).Msg("dropping record without id")
			continue
		}
		records = append(records, r)
	}

	s.log.Debug().
		Str("model", model).
		Str("domain", MarshalDomain(domain)).
		Int("count", len(records)).
		Msg("search complete")

	return records
}

func (s *Service) fail(model string, err error) {
	s.log.Warn().Err(err).Str("model", model).Msg("search failed")
	s.notifier.Notify(Notification{
		Title:   "Search failed",
		Message: Message(err),
		Err:     err,
	})
}
