// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/metrics"
	"github.com/tomtom215/ticketai/internal/storage"
)

// ErrNotFitted is returned when inference needs a fitted model and none is
// available, even after an implicit training attempt.
var ErrNotFitted = errors.New("model is not fitted")

// ErrTrainingFailed wraps every trainer or persistence failure returned by
// Train. Insufficient data is not a failure.
var ErrTrainingFailed = errors.New("training failed")

// DefaultTrainTimeout bounds a single training run.
const DefaultTrainTimeout = 30 * time.Minute

// Artifact is a model owned by a Manager.
type Artifact interface {
	IsFitted() bool
}

// Stats describes the data a model was fitted on.
type Stats struct {
	Samples      int
	Users        int
	Items        int
	FeatureNames []string
}

// Definition describes how one model type is built, persisted and restored.
// S is the gob-encodable state type.
type Definition[M Artifact, S any] struct {
	// Name is the artifact name, e.g. "recommendation".
	Name string

	// Descriptor is stored with every artifact and checked on load.
	Descriptor storage.Descriptor

	// New returns an unfitted model.
	New func() M

	// Train fetches data and fits a new model. It returns an error matching
	// features.ErrInsufficientData when the data volume is too small.
	Train func(ctx context.Context) (M, Stats, error)

	// Snapshot extracts the persistable state of a fitted model.
	Snapshot func(M) *S

	// Restore rebuilds a model from persisted state.
	Restore func(*S) (M, error)
}

// Source records where the current model came from.
type Source string

// Model sources.
const (
	SourceEmpty   Source = "empty"
	SourceLoaded  Source = "loaded"
	SourceTrained Source = "trained"
)

// Info describes the current model.
type Info struct {
	Name      string    `json:"name"`
	Fitted    bool      `json:"is_fitted"`
	Version   int       `json:"model_version"`
	TrainedAt time.Time `json:"trained_at,omitempty"`
	Samples   int       `json:"samples"`
	Source    Source    `json:"source"`
}

// Outcome is the result kind of a Train call.
type Outcome string

// Train outcomes.
const (
	OutcomeTrained      Outcome = "trained"
	OutcomeAlreadyFit   Outcome = "skipped_fitted"
	OutcomeInsufficient Outcome = "skipped_insufficient"
)

// Result reports what a Train call did.
type Result struct {
	Outcome  Outcome       `json:"outcome"`
	Version  int           `json:"model_version"`
	Samples  int           `json:"samples"`
	Duration time.Duration `json:"duration"`
	Shared   bool          `json:"shared"`
}

type handle[M Artifact] struct {
	model M
	info  Info
}

// Manager owns the canonical instance of one model type.
type Manager[M Artifact, S any] struct {
	def          Definition[M, S]
	store        *storage.Store
	logger       zerolog.Logger
	trainTimeout time.Duration
	keepVersions int
	onTrained    func(Info)

	current  atomic.Pointer[handle[M]]
	initOnce sync.Once
	trainMu  sync.Mutex
	group    singleflight.Group
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	trainTimeout time.Duration
	keepVersions int
	onTrained    func(Info)
}

// WithTrainTimeout bounds each training run.
func WithTrainTimeout(d time.Duration) Option {
	return func(o *options) { o.trainTimeout = d }
}

// WithKeepVersions sets how many artifact versions are retained on disk.
func WithKeepVersions(n int) Option {
	return func(o *options) { o.keepVersions = n }
}

// WithTrainedHook registers a callback invoked after a new model is published.
func WithTrainedHook(fn func(Info)) Option {
	return func(o *options) { o.onTrained = fn }
}

// NewManager creates a manager. The model is not loaded until GetOrInit.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewManager[M Artifact, S any](def Definition[M, S], store *storage.Store, logger zerolog.Logger, opts ...Option) *Manager[M, S] {
	o := options{trainTimeout: DefaultTrainTimeout, keepVersions: 3}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[M, S]{
		def:          def,
		store:        store,
		logger:       logger.With().Str("component", "lifecycle").Str("model", def.Name).Logger(),
		trainTimeout: o.trainTimeout,
		keepVersions: o.keepVersions,
		onTrained:    o.onTrained,
	}
}

// Name returns the model type name.
func (m *Manager[M, S]) Name() string { return m.def.Name }

// GetOrInit returns the current model, loading it from storage on first
// use. It never fails: load errors yield an unfitted model. The load runs
// at most once, so it ignores the caller's cancellation; a client that
// disconnects must not leave a valid artifact unloaded for the process
// lifetime.
func (m *Manager[M, S]) GetOrInit(ctx context.Context) M {
	m.initOnce.Do(func() { m.load(context.WithoutCancel(ctx)) })
	return m.current.Load().model
}

func (m *Manager[M, S]) load(ctx context.Context) {
	empty := &handle[M]{model: m.def.New(), info: Info{Name: m.def.Name, Source: SourceEmpty}}

	var state S
	meta, err := m.store.Load(ctx, m.def.Name, 0, m.def.Descriptor, &state)
	if err != nil {
		cause := storage.Cause(err)
		metrics.RecordModelLoad(m.def.Name, cause)
		if errors.Is(err, storage.ErrNotFound) {
			m.logger.Info().Msg("No persisted model found, starting unfitted")
		} else {
			m.logger.Warn().Err(err).Str("cause", cause).Msg("Failed to load persisted model, starting unfitted")
		}
		m.current.Store(empty)
		return
	}

	model, err := m.def.Restore(&state)
	if err != nil {
		metrics.RecordModelLoad(m.def.Name, "restore")
		m.logger.Warn().Err(err).Int("version", meta.Version).Msg("Failed to restore persisted model, starting unfitted")
		m.current.Store(empty)
		return
	}

	metrics.RecordModelLoad(m.def.Name, "ok")
	metrics.SetModelVersion(m.def.Name, meta.Version, model.IsFitted())
	m.current.Store(&handle[M]{
		model: model,
		info: Info{
			Name:      m.def.Name,
			Fitted:    model.IsFitted(),
			Version:   meta.Version,
			TrainedAt: meta.TrainedAt,
			Samples:   meta.SampleCount,
			Source:    SourceLoaded,
		},
	})
	m.logger.Info().
		Int("version", meta.Version).
		Int("samples", meta.SampleCount).
		Time("trained_at", meta.TrainedAt).
		Msg("Loaded persisted model")
}

// Current returns the published model, initializing it if needed.
func (m *Manager[M, S]) Current() M {
	return m.GetOrInit(context.Background())
}

// Info describes the published model.
func (m *Manager[M, S]) Info() Info {
	m.GetOrInit(context.Background())
	return m.current.Load().info
}

// Train fits and publishes a new model unless the current one is fitted and
// force is false. Concurrent calls are coalesced. The caller's context only
// bounds how long the caller waits; the run itself continues until done or
// until the training timeout elapses.
func (m *Manager[M, S]) Train(ctx context.Context, force bool) (Result, error) {
	m.GetOrInit(ctx)

	key := "train"
	if force {
		key = "train-force"
	}

	runCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		m.trainMu.Lock()
		defer m.trainMu.Unlock()

		tctx, cancel := context.WithTimeout(runCtx, m.trainTimeout)
		defer cancel()
		return m.train(tctx, force)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		res := r.Val.(Result) //nolint:errcheck,forcetypeassert // train always returns Result
		res.Shared = r.Shared
		if r.Shared {
			metrics.RecordTrainingCoalesced(m.def.Name)
		}
		return res, nil
	}
}

func (m *Manager[M, S]) train(ctx context.Context, force bool) (Result, error) {
	cur := m.current.Load()
	if cur.info.Fitted && !force {
		m.logger.Debug().Int("version", cur.info.Version).Msg("Model already fitted, skipping training")
		metrics.RecordTraining(m.def.Name, string(OutcomeAlreadyFit), 0)
		return Result{Outcome: OutcomeAlreadyFit, Version: cur.info.Version, Samples: cur.info.Samples}, nil
	}

	start := time.Now()
	m.logger.Info().Bool("force", force).Msg("Training started")

	model, stats, err := m.def.Train(ctx)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, features.ErrInsufficientData) {
			m.logger.Warn().Err(err).Msg("Not enough training data, keeping current model")
			metrics.RecordTraining(m.def.Name, string(OutcomeInsufficient), duration)
			return Result{Outcome: OutcomeInsufficient, Version: cur.info.Version, Samples: stats.Samples, Duration: duration}, nil
		}
		metrics.RecordTraining(m.def.Name, "failed", duration)
		m.logger.Error().Err(err).Dur("duration", duration).Msg("Training failed")
		return Result{}, fmt.Errorf("%w: %s: %w", ErrTrainingFailed, m.def.Name, err)
	}
	if !model.IsFitted() {
		metrics.RecordTraining(m.def.Name, "failed", duration)
		return Result{}, fmt.Errorf("%w: %s: trainer returned an unfitted model", ErrTrainingFailed, m.def.Name)
	}

	version := cur.info.Version + 1
	if latest, ok := m.store.LatestVersion(m.def.Name); ok && latest >= version {
		version = latest + 1
	}
	trainedAt := time.Now().UTC()

	meta := storage.Metadata{
		Descriptor:         m.def.Descriptor,
		TrainedAt:          trainedAt,
		SampleCount:        stats.Samples,
		UserCount:          stats.Users,
		ItemCount:          stats.Items,
		FeatureNames:       stats.FeatureNames,
		TrainingDurationMS: duration.Milliseconds(),
	}
	if err := m.store.Save(ctx, m.def.Name, version, m.def.Snapshot(model), meta); err != nil {
		metrics.RecordTraining(m.def.Name, "persist_failed", duration)
		m.logger.Error().Err(err).Int("version", version).Msg("Failed to persist model, keeping current model")
		return Result{}, fmt.Errorf("%w: persist %s: %w", ErrTrainingFailed, m.def.Name, err)
	}

	info := Info{
		Name:      m.def.Name,
		Fitted:    true,
		Version:   version,
		TrainedAt: trainedAt,
		Samples:   stats.Samples,
		Source:    SourceTrained,
	}
	m.current.Store(&handle[M]{model: model, info: info})

	metrics.RecordTraining(m.def.Name, string(OutcomeTrained), duration)
	metrics.SetModelVersion(m.def.Name, version, true)
	m.logger.Info().
		Int("version", version).
		Int("samples", stats.Samples).
		Dur("duration", duration).
		Msg("Training completed, model published")

	if err := m.store.Prune(ctx, m.def.Name, m.keepVersions); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to prune old model versions")
	}
	if m.onTrained != nil {
		m.onTrained(info)
	}

	return Result{Outcome: OutcomeTrained, Version: version, Samples: stats.Samples, Duration: duration}, nil
}

// Ensure returns a fitted model, training one first if necessary.
func (m *Manager[M, S]) Ensure(ctx context.Context) (M, error) {
	model := m.GetOrInit(ctx)
	if model.IsFitted() {
		return model, nil
	}

	m.logger.Warn().Msg("Model not fitted, training before serving request")
	if _, err := m.Train(ctx, false); err != nil {
		var zero M
		return zero, err
	}

	model = m.current.Load().model
	if !model.IsFitted() {
		var zero M
		return zero, fmt.Errorf("%s: %w", m.def.Name, ErrNotFitted)
	}
	return model, nil
}

// WithModel runs fn against a fitted model. If fn reports ErrNotFitted the
// model is trained once and fn is retried with the new model.
func (m *Manager[M, S]) WithModel(ctx context.Context, fn func(M) error) error {
	model, err := m.Ensure(ctx)
	if err != nil {
		return err
	}

	err = fn(model)
	if !errors.Is(err, ErrNotFitted) {
		return err
	}

	if _, err := m.Train(ctx, false); err != nil {
		return err
	}
	model = m.current.Load().model
	if !model.IsFitted() {
		return fmt.Errorf("%s: %w", m.def.Name, ErrNotFitted)
	}
	return fn(model)
}
