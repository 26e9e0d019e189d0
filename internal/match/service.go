package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nexus-form/nexus/internal/observability"
	"github.com/nexus-form/nexus/internal/store"
	"github.com/nexus-form/nexus/internal/survey"
)

// ErrMatchCompleted is returned when Person B submits for a link that both
// participants have already answered.
var ErrMatchCompleted = errors.New("match already completed")

// Status summarises one match id.
type Status struct {
	MatchID  string `json:"match_id"`
	Complete bool   `json:"complete"`
	Rows     int    `json:"rows"`
}

// Receipt is what a successful submission produced.
type Receipt struct {
	MatchID string
	Action  Action
}

// Service runs the read, reconcile, write cycle against a store. It does not
// coordinate concurrent submissions: two cycles that overlap can lose one
// another's write.
type Service struct {
	store      store.Store
	reconciler *Reconciler
	metrics    *observability.Metrics
	logger     *zap.Logger
	timeout    time.Duration
}

type Option func(*Service)

// WithReconciler replaces the default reconciler, mainly for deterministic ids in tests.
func WithReconciler(r *Reconciler) Option {
	return func(s *Service) { s.reconciler = r }
}

// WithTimeout bounds each store operation.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func NewService(st store.Store, metrics *observability.Metrics, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:      st,
		reconciler: NewReconciler(),
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status reads the table and reports whether id is complete.
func (s *Service) Status(ctx context.Context, id string) (Status, error) {
	t, err := s.read(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		MatchID:  id,
		Complete: IsComplete(t, id),
		Rows:     len(matchingRows(t, id)),
	}, nil
}

// Snapshot returns the whole table, for export.
func (s *Service) Snapshot(ctx context.Context) (survey.Table, error) {
	return s.read(ctx)
}

// Ping checks that the store can be read.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.read(ctx)
	return err
}

// Submit records sub for role. A joining submission for a completed match
// is rejected with ErrMatchCompleted and nothing is written.
func (s *Service) Submit(ctx context.Context, role Role, sub Submission) (Receipt, error) {
	t, err := s.read(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if role.Joining() && IsComplete(t, role.MatchID) {
		return Receipt{}, ErrMatchCompleted
	}

	res, err := s.reconciler.Reconcile(t, role, sub)
	if err != nil {
		return Receipt{}, fmt.Errorf("reconcile: %w", err)
	}
	if err := s.write(ctx, res.Table); err != nil {
		return Receipt{}, err
	}

	if s.metrics != nil {
		s.metrics.ObserveSubmission(string(role.Kind), string(res.Action))
	}
	s.logger.Info("submission stored",
		zap.String("role", string(role.Kind)),
		zap.String("match_id", res.MatchID),
		zap.String("action", string(res.Action)),
		zap.Int("row", res.Row),
		zap.Int("rows", res.Table.Len()),
	)
	if res.Action == ActionOrphaned || res.Action == ActionOverwritten {
		s.logger.Warn("joining submission did not complete a pending row",
			zap.String("match_id", res.MatchID),
			zap.String("action", string(res.Action)),
		)
	}
	return Receipt{MatchID: res.MatchID, Action: res.Action}, nil
}

func (s *Service) read(ctx context.Context) (survey.Table, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	t, err := s.store.ReadAll(ctx)
	s.observe("read", start, err)
	if err != nil {
		return survey.Table{}, s.unavailable("read", err)
	}
	return t, nil
}

func (s *Service) write(ctx context.Context, t survey.Table) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	err := s.store.WriteAll(ctx, t)
	s.observe("write", start, err)
	if err != nil {
		return s.unavailable("write", err)
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveStoreOp(op, time.Since(start), err)
}

// unavailable makes sure every store failure carries store.ErrUnavailable.
func (s *Service) unavailable(op string, err error) error {
	s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	if errors.Is(err, store.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, op, err)
}
