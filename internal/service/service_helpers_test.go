package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/logging"
	"bingo-rooms/internal/storage"
	"bingo-rooms/internal/storage/memory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

type sentEvent struct {
	RoomCode  string
	VisitorID string
	Event     string
	Payload   any
}

// recorder captures every event it is handed.
type recorder struct {
	mu     sync.Mutex
	events []sentEvent
}

func (r *recorder) Broadcast(roomCode, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{RoomCode: roomCode, Event: event, Payload: payload})
}

func (r *recorder) SendToVisitor(roomCode, visitorID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{RoomCode: roomCode, VisitorID: visitorID, Event: event, Payload: payload})
}

func (r *recorder) all() []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentEvent(nil), r.events...)
}

func (r *recorder) named(event string) []sentEvent {
	var out []sentEvent
	for _, e := range r.all() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// gatedBroadcaster holds the first number-drawn broadcast until release
// is closed.
type gatedBroadcaster struct {
	recorder
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedBroadcaster() *gatedBroadcaster {
	return &gatedBroadcaster{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedBroadcaster) Broadcast(roomCode, event string, payload any) {
	if event == EventNumberDrawn {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	g.recorder.Broadcast(roomCode, event, payload)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Broadcast(roomCode, event string, payload any) {
	m.Called(roomCode, event, payload)
}

func (m *mockBroadcaster) SendToVisitor(roomCode, visitorID, event string, payload any) {
	m.Called(roomCode, visitorID, event, payload)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, room *bingo.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockStore) FindByCode(ctx context.Context, code string) (*bingo.Room, error) {
	args := m.Called(ctx, code)
	room, _ := args.Get(0).(*bingo.Room)
	return room, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, room *bingo.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockStore) ListActive(ctx context.Context) ([]*bingo.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]*bingo.Room)
	return rooms, args.Error(1)
}

type fixture struct {
	svc    *RoomService
	store  *memory.Store
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &recorder{}
	svc := New(Options{
		Store:       store,
		Broadcaster: events,
		Source:      bingo.NewSeededSource(11),
		Now:         func() time.Time { return testNow },
		Log:         logging.Discard(),
	})
	return &fixture{svc: svc, store: store, events: events}
}

// createRoom makes a room hosted by "host" with the given extra visitors.
func (f *fixture) createRoom(t *testing.T, maxCards int, rules []string, visitors ...string) *bingo.Room {
	t.Helper()
	ctx := context.Background()
	room, err := f.svc.CreateRoom(ctx, CreateRoomInput{
		Name:     "Friday",
		HostID:   "host",
		HostName: "Hosty",
		MaxCards: maxCards,
		Rules:    rules,
	})
	require.NoError(t, err)
	for _, v := range visitors {
		_, _, err := f.svc.JoinRoom(ctx, room.Code, v, v+"-nick")
		require.NoError(t, err)
	}
	f.events.reset()
	return room
}

func (f *fixture) stored(t *testing.T, code string) *bingo.Room {
	t.Helper()
	room, err := f.store.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return room
}

var _ storage.Store = (*mockStore)(nil)
