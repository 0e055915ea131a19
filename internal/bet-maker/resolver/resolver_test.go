package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-maker/internal/bet-maker/provider"
	"github.com/radieske/bet-maker/pkg/contracts/line"
)

type fakeCache struct {
	events  map[string]line.Event
	list    []line.Event
	hasList bool
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{events: make(map[string]line.Event)}
}

func (f *fakeCache) Get(_ context.Context, eventID string) (*line.Event, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	ev, ok := f.events[eventID]
	if !ok {
		return nil, false, nil
	}
	return &ev, true, nil
}

func (f *fakeCache) Put(_ context.Context, ev line.Event) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.events[ev.EventID] = ev
	return nil
}

func (f *fakeCache) GetAll(_ context.Context) ([]line.Event, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.list, f.hasList, nil
}

func (f *fakeCache) PutAll(_ context.Context, evs []line.Event) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.list = evs
	f.hasList = true
	return nil
}

type fakeSource struct {
	events     map[string]line.Event
	err        error
	fetchCalls int
	listCalls  int
}

func (f *fakeSource) FetchEvent(_ context.Context, eventID string) (*line.Event, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[eventID]
	if !ok {
		return nil, provider.ErrEventNotFound
	}
	return &ev, nil
}

func (f *fakeSource) FetchAllEvents(_ context.Context) ([]line.Event, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]line.Event, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev)
	}
	return out, nil
}

func sampleEvent(id string) line.Event {
	return line.Event{
		EventID:     id,
		Coefficient: 1.85,
		Deadline:    time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		Status:      line.StatusNew,
	}
}

func TestResolve_CacheHitSkipsSource(t *testing.T) {
	c := newFakeCache()
	s := &fakeSource{events: map[string]line.Event{}}
	ev := sampleEvent("e1")
	require.NoError(t, c.Put(context.Background(), ev))

	r := New(zap.NewNop(), c, s)
	got, err := r.Resolve(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, ev, *got)
	assert.Zero(t, s.fetchCalls)
}

func TestResolve_MissFetchesAndPopulatesCache(t *testing.T) {
	c := newFakeCache()
	ev := sampleEvent("e1")
	s := &fakeSource{events: map[string]line.Event{"e1": ev}}

	r := New(zap.NewNop(), c, s)

	got, err := r.Resolve(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, ev, *got)
	assert.Equal(t, 1, s.fetchCalls)

	// segunda chamada dentro do TTL não vai ao provider
	got, err = r.Resolve(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, ev, *got)
	assert.Equal(t, 1, s.fetchCalls)
}

func TestResolve_NotFoundIsNotCached(t *testing.T) {
	c := newFakeCache()
	s := &fakeSource{events: map[string]line.Event{}}

	r := New(zap.NewNop(), c, s)

	_, err := r.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, provider.ErrEventNotFound)

	_, err = r.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, provider.ErrEventNotFound)
	assert.Equal(t, 2, s.fetchCalls)
	assert.Empty(t, c.events)
}

func TestResolve_UpstreamErrorPropagatesUnchanged(t *testing.T) {
	c := newFakeCache()
	cause := errors.New("connection refused")
	s := &fakeSource{err: &provider.UpstreamError{Op: "fetch event", Cause: cause}}

	r := New(zap.NewNop(), c, s)
	_, err := r.Resolve(context.Background(), "e1")

	var upstream *provider.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorIs(t, err, cause)
}

func TestResolve_CacheFailuresAreNonFatal(t *testing.T) {
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	c.putErr = errors.New("redis down")
	ev := sampleEvent("e1")
	s := &fakeSource{events: map[string]line.Event{"e1": ev}}

	r := New(zap.NewNop(), c, s)
	got, err := r.Resolve(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, ev, *got)
}

func TestResolveAll_MissFetchesAndPopulates(t *testing.T) {
	c := newFakeCache()
	s := &fakeSource{events: map[string]line.Event{
		"e1": sampleEvent("e1"),
		"e2": sampleEvent("e2"),
	}}

	r := New(zap.NewNop(), c, s)

	evs, err := r.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, evs, 2)
	assert.Equal(t, 1, s.listCalls)

	evs, err = r.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, evs, 2)
	assert.Equal(t, 1, s.listCalls)
}

func TestResolveAll_EmptySnapshotIsCached(t *testing.T) {
	c := newFakeCache()
	s := &fakeSource{events: map[string]line.Event{}}

	r := New(zap.NewNop(), c, s)

	evs, err := r.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, evs)

	_, err = r.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.listCalls)
}

func TestResolveAll_ListAndEventCachesAreIndependent(t *testing.T) {
	c := newFakeCache()
	s := &fakeSource{events: map[string]line.Event{"e1": sampleEvent("e1")}}

	r := New(zap.NewNop(), c, s)

	// popular só o cache unitário não serve o snapshot de lista
	_, err := r.Resolve(context.Background(), "e1")
	require.NoError(t, err)

	_, err = r.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.listCalls)
}
