// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package lifecycle

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/storage"
)

type fakeModel struct {
	fitted bool
	value  int
}

func (f *fakeModel) IsFitted() bool { return f.fitted }

type fakeState struct {
	Value  int
	Fitted bool
}

var fakeDescriptor = storage.Descriptor{Kind: "test.fake", SchemaVersion: 1}

func fakeDefinition(train func(ctx context.Context) (*fakeModel, Stats, error)) Definition[*fakeModel, fakeState] {
	return Definition[*fakeModel, fakeState]{
		Name:       "fake",
		Descriptor: fakeDescriptor,
		New:        func() *fakeModel { return &fakeModel{} },
		Train:      train,
		Snapshot: func(m *fakeModel) *fakeState {
			return &fakeState{Value: m.value, Fitted: m.fitted}
		},
		Restore: func(s *fakeState) (*fakeModel, error) {
			return &fakeModel{fitted: s.Fitted, value: s.Value}, nil
		},
	}
}

func fitted(value int) func(context.Context) (*fakeModel, Stats, error) {
	return func(context.Context) (*fakeModel, Stats, error) {
		return &fakeModel{fitted: true, value: value}, Stats{Samples: 100}, nil
	}
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestManager_GetOrInit_EmptyStore(t *testing.T) {
	t.Parallel()

	m := NewManager(fakeDefinition(fitted(1)), newStore(t), zerolog.Nop())
	model := m.GetOrInit(context.Background())

	if model == nil || model.IsFitted() {
		t.Fatalf("GetOrInit() = %+v, want unfitted model", model)
	}
	if info := m.Info(); info.Source != SourceEmpty || info.Version != 0 {
		t.Errorf("Info() = %+v, want empty source and version 0", info)
	}
}

func TestManager_TrainPersistsAndReloads(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()

	var hooked []Info
	m := NewManager(fakeDefinition(fitted(42)), store, zerolog.Nop(),
		WithTrainedHook(func(i Info) { hooked = append(hooked, i) }))

	res, err := m.Train(ctx, false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if res.Outcome != OutcomeTrained || res.Version != 1 || res.Samples != 100 {
		t.Errorf("Train() = %+v", res)
	}
	if cur := m.Current(); !cur.IsFitted() || cur.value != 42 {
		t.Errorf("Current() = %+v, want fitted value 42", cur)
	}
	if len(hooked) != 1 || hooked[0].Version != 1 {
		t.Errorf("trained hook calls = %+v", hooked)
	}

	reloaded := NewManager(fakeDefinition(fitted(0)), store, zerolog.Nop())
	got := reloaded.GetOrInit(ctx)
	if !got.IsFitted() || got.value != 42 {
		t.Errorf("reloaded model = %+v, want fitted value 42", got)
	}
	info := reloaded.Info()
	if info.Source != SourceLoaded || info.Version != 1 || info.Samples != 100 {
		t.Errorf("reloaded Info() = %+v", info)
	}
}

func TestManager_GetOrInit_IgnoresCancelledCaller(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	if _, err := NewManager(fakeDefinition(fitted(7)), store, zerolog.Nop()).Train(context.Background(), false); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(fakeDefinition(fitted(0)), store, zerolog.Nop())
	got := m.GetOrInit(ctx)
	if !got.IsFitted() || got.value != 7 {
		t.Errorf("GetOrInit(cancelled) = %+v, want persisted fitted value 7", got)
	}
	if info := m.Info(); info.Source != SourceLoaded || info.Version != 1 {
		t.Errorf("Info() = %+v, want loaded version 1", info)
	}
}

func TestManager_TrainSkipsWhenFitted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := NewManager(fakeDefinition(func(context.Context) (*fakeModel, Stats, error) {
		n := calls.Add(1)
		return &fakeModel{fitted: true, value: int(n)}, Stats{Samples: 10}, nil
	}), newStore(t), zerolog.Nop())
	ctx := context.Background()

	if _, err := m.Train(ctx, false); err != nil {
		t.Fatal(err)
	}
	res, err := m.Train(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeAlreadyFit || calls.Load() != 1 {
		t.Errorf("second Train() = %+v after %d fits, want skip after 1", res, calls.Load())
	}

	res, err = m.Train(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeTrained || res.Version != 2 || m.Current().value != 2 {
		t.Errorf("forced Train() = %+v, current = %+v", res, m.Current())
	}
}

func TestManager_InsufficientDataKeepsModel(t *testing.T) {
	t.Parallel()

	m := NewManager(fakeDefinition(func(context.Context) (*fakeModel, Stats, error) {
		return nil, Stats{Samples: 3}, &features.InsufficientDataError{Have: 3, Need: 10}
	}), newStore(t), zerolog.Nop())

	res, err := m.Train(context.Background(), true)
	if err != nil {
		t.Fatalf("Train() error = %v, want nil", err)
	}
	if res.Outcome != OutcomeInsufficient {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeInsufficient)
	}
	if m.Current().IsFitted() {
		t.Error("model became fitted after skipped training")
	}

	_, err = m.Ensure(context.Background())
	if !errors.Is(err, ErrNotFitted) {
		t.Errorf("Ensure() error = %v, want ErrNotFitted", err)
	}
}

func TestManager_TrainerErrorKeepsModel(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fail := false
	m := NewManager(fakeDefinition(func(context.Context) (*fakeModel, Stats, error) {
		if fail {
			return nil, Stats{}, boom
		}
		return &fakeModel{fitted: true, value: 7}, Stats{Samples: 1}, nil
	}), newStore(t), zerolog.Nop())

	if _, err := m.Train(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	fail = true
	_, err := m.Train(context.Background(), true)
	if !errors.Is(err, boom) || !errors.Is(err, ErrTrainingFailed) {
		t.Fatalf("Train() error = %v, want boom wrapped in ErrTrainingFailed", err)
	}
	if cur := m.Current(); cur.value != 7 || m.Info().Version != 1 {
		t.Errorf("model replaced after failed training: %+v", cur)
	}
}

func TestManager_SaveFailureDoesNotSwap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	m := NewManager(fakeDefinition(fitted(5)), store, zerolog.Nop())
	m.GetOrInit(context.Background())

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	_, err = m.Train(context.Background(), false)
	var pe *storage.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Train() error = %v, want *storage.PersistenceError", err)
	}
	if m.Current().IsFitted() {
		t.Error("unsaved model was published")
	}
}

func TestManager_LoadFailureFallsBack(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()

	other := storage.Descriptor{Kind: "test.other", SchemaVersion: 1}
	if err := store.Save(ctx, "fake", 1, &fakeState{Value: 1, Fitted: true}, storage.Metadata{Descriptor: other}); err != nil {
		t.Fatal(err)
	}

	m := NewManager(fakeDefinition(fitted(9)), store, zerolog.Nop())
	if model := m.GetOrInit(ctx); model.IsFitted() {
		t.Fatal("model with mismatched descriptor was loaded")
	}

	res, err := m.Train(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Version != 2 {
		t.Errorf("Version = %d, want 2 (after existing v1 on disk)", res.Version)
	}
}

func TestManager_RestoreFailureFallsBack(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, "fake", 1, &fakeState{Value: 1, Fitted: true}, storage.Metadata{Descriptor: fakeDescriptor}); err != nil {
		t.Fatal(err)
	}

	def := fakeDefinition(fitted(1))
	def.Restore = func(*fakeState) (*fakeModel, error) { return nil, errors.New("bad state") }
	m := NewManager(def, store, zerolog.Nop())

	if model := m.GetOrInit(ctx); model == nil || model.IsFitted() {
		t.Errorf("GetOrInit() = %+v, want unfitted fallback", model)
	}
}

func TestManager_ConcurrentTrainIsSingleFlight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	m := NewManager(fakeDefinition(func(context.Context) (*fakeModel, Stats, error) {
		calls.Add(1)
		<-release
		return &fakeModel{fitted: true}, Stats{Samples: 1}, nil
	}), newStore(t), zerolog.Nop())
	m.GetOrInit(context.Background())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]Result, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Train(context.Background(), false)
		}(i)
	}

	// Give every caller time to join the in-flight run.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("trainer invoked %d times, want 1", n)
	}
	for i := range results {
		if errs[i] != nil {
			t.Errorf("caller %d error = %v", i, errs[i])
		}
	}
	if m.Info().Version != 1 {
		t.Errorf("Version = %d, want 1", m.Info().Version)
	}
}

func TestManager_CallerCancelDoesNotAbortTraining(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	m := NewManager(fakeDefinition(func(context.Context) (*fakeModel, Stats, error) {
		<-release
		return &fakeModel{fitted: true, value: 3}, Stats{Samples: 1}, nil
	}), newStore(t), zerolog.Nop())
	m.GetOrInit(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.Train(ctx, false)
		done <- err
	}()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Train() error = %v, want context.Canceled", err)
	}

	close(release)
	res, err := m.Train(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if m.Current().value != 3 {
		t.Errorf("detached training did not publish its model; result %+v", res)
	}
}

func TestManager_WithModelRetriesOnNotFitted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := NewManager(fakeDefinition(func(context.Context) (*fakeModel, Stats, error) {
		n := calls.Add(1)
		return &fakeModel{fitted: true, value: int(n)}, Stats{Samples: 1}, nil
	}), newStore(t), zerolog.Nop())

	attempts := 0
	err := m.WithModel(context.Background(), func(model *fakeModel) error {
		attempts++
		if attempts == 1 {
			// Simulate a model swapped out from under the caller.
			m.current.Store(&handle[*fakeModel]{model: &fakeModel{}, info: Info{Name: "fake"}})
			return ErrNotFitted
		}
		if !model.IsFitted() {
			t.Error("retry received an unfitted model")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithModel() error = %v", err)
	}
	if attempts != 2 || calls.Load() != 2 {
		t.Errorf("attempts = %d, trainer calls = %d; want 2 and 2", attempts, calls.Load())
	}
}
