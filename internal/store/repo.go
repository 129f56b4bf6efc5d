package store

import (
	"context"
	"database/sql"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose narrows LLM event queries to one purpose label. Profile
	// queries ignore it.
	Purpose string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	RunID        string // generate run the call belongs to, "" outside one
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	Outcome      string // see llm.Outcome
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ProfileEventData records one generated filament profile.
type ProfileEventData struct {
	RunID           string
	ProfileName     string
	Slug            string
	Source          string // "catalog", "heuristic" or "llm"
	MaterialName    string
	RequestedTemp   int
	NozzleTemp      int
	BedTemp         int
	FanSpeed        int
	FanSpeedMin     int
	FanSpeedMax     int
	FlowRatio       float64
	PressureAdvance float64
	OutputPath      string
}

// ProfileEvent is a stored profile event.
type ProfileEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ProfileEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// OutcomeCount is the number of LLM calls that ended with one outcome.
type OutcomeCount struct {
	Outcome string
	Calls   int
}

// SourceCount is the number of profiles saved from one source.
type SourceCount struct {
	Source   string
	Profiles int
}

// ModelUsage aggregates LLM usage for one provider/model pair.
type ModelUsage struct {
	Provider     string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendProfile records a generated profile.
	AppendProfile(ctx context.Context, data ProfileEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per provider and model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// LLMOutcomes counts calls per outcome for one purpose, or for all
	// purposes when purpose is "".
	LLMOutcomes(ctx context.Context, purpose string) ([]OutcomeCount, error)

	// RunSources counts, per profile source, the profiles saved by
	// generate runs that made at least one LLM call with the given
	// purpose. A "heuristic" count here is a run that fell back.
	RunSources(ctx context.Context, purpose string) ([]SourceCount, error)

	// ProfilesByRun returns the profile events for the given run IDs,
	// keyed by run ID.
	ProfilesByRun(ctx context.Context, runIDs []string) (map[string]ProfileEvent, error)

	// QueryProfiles returns profile events, newest first.
	QueryProfiles(ctx context.Context, opts QueryOpts) ([]ProfileEvent, error)
}

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// applyOpts narrows sel by opts and orders it newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}
