// Package workflow orchestrates the service-request lifecycle: intake
// (Open) and resolution (Close), plus the interactive registry operations
// that feed them.
//
// A service request has exactly two states. It is Open from the moment its
// Service_Request row is written and becomes Closed - terminally - when a
// paired Closed_Request row is written. No other transition exists: no
// reopen, no cancel.
package workflow

import (
	"log/slog"
	"time"

	"github.com/roach88/mechshop/internal/store"
)

// ValidationPolicy controls how out-of-range odometer and bill inputs are
// handled at intake and close.
type ValidationPolicy string

const (
	// PolicyLenient reports an out-of-range value to the operator and
	// persists it as entered. This preserves the system's historical
	// behavior; downstream reports see the raw value.
	PolicyLenient ValidationPolicy = "lenient"

	// PolicyStrict re-prompts until the value is in range.
	PolicyStrict ValidationPolicy = "strict"
)

// Config carries the workflow's tunable policy knobs. The zero value is
// usable: lenient validation, 5 identity retries, wall clock, UUIDv7 tokens.
type Config struct {
	// Policy selects lenient or strict handling of out-of-range numeric
	// input. Defaults to PolicyLenient.
	Policy ValidationPolicy

	// MaxIdentityRetries bounds the re-prompt loop when customer/mechanic
	// identity fields collide with an existing record. Defaults to 5.
	MaxIdentityRetries int

	// Now supplies the date stamped on new records. Defaults to time.Now.
	Now func() time.Time

	// Tokens generates per-invocation correlation tokens for logging.
	// Defaults to UUIDv7Generator.
	Tokens TokenGenerator
}

// Service runs workflow transitions against a single store. It assumes
// exclusive access to the store for the duration of one invocation; the
// only concurrency protection is that allocate-and-insert units run inside
// one transaction each.
type Service struct {
	store              *store.Store
	log                *slog.Logger
	policy             ValidationPolicy
	maxIdentityRetries int
	now                func() time.Time
	tokens             TokenGenerator
}

// New creates a workflow service. logger may be nil, in which case records
// go to the default slog logger.
func New(st *store.Store, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyLenient
	}
	retries := cfg.MaxIdentityRetries
	if retries <= 0 {
		retries = 5
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Service{
		store:              st,
		log:                logger,
		policy:             policy,
		maxIdentityRetries: retries,
		now:                now,
		tokens:             tokens,
	}
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

// notify reports a condition to the operator without failing the
// invocation.
func notify(p Prompter, msg string) {
	p.Display([]string{"notice"}, [][]string{{msg}})
}
