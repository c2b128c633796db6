package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bingo-rooms/internal/db"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	journalQueueSize = 1024
	journalBatchSize = 64
)

// Journal records every room event in the events table. It satisfies the
// service broadcaster so it can sit next to the websocket hub.
//
// Broadcast and SendToVisitor only queue the event; a single writer inserts
// queued events in arrival order. Events are dropped with a warning while the
// queue is full or after Close.
type Journal struct {
	db      *gorm.DB
	log     logrus.FieldLogger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan db.Event
	done   chan struct{}
}

func NewJournal(conn *gorm.DB, log logrus.FieldLogger) *Journal {
	j := newJournal(conn, log, journalQueueSize)
	go j.run()
	return j
}

func newJournal(conn *gorm.DB, log logrus.FieldLogger, queueSize int) *Journal {
	j := &Journal{
		db:      conn,
		log:     log,
		timeout: 5 * time.Second,
		queue:   make(chan db.Event, queueSize),
		done:    make(chan struct{}),
	}
	return j
}

func (j *Journal) Broadcast(roomCode, event string, payload any) {
	j.record(roomCode, nil, event, payload)
}

func (j *Journal) SendToVisitor(roomCode, visitorID, event string, payload any) {
	j.record(roomCode, &visitorID, event, payload)
}

// Close stops accepting events and waits until the queued ones are written.
func (j *Journal) Close() {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.queue)
	}
	j.mu.Unlock()
	<-j.done
}

func (j *Journal) record(roomCode string, visitorID *string, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		j.log.WithError(err).WithField("event", event).Warn("journal encode failed")
		return
	}
	record := db.Event{
		RoomCode:  roomCode,
		VisitorID: visitorID,
		Type:      event,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.log.WithFields(logrus.Fields{"room_code": roomCode, "event": event}).Warn("journal closed, event dropped")
		return
	}
	select {
	case j.queue <- record:
	default:
		j.log.WithFields(logrus.Fields{"room_code": roomCode, "event": event}).Warn("journal queue full, event dropped")
	}
}

func (j *Journal) run() {
	defer close(j.done)
	batch := make([]db.Event, 0, journalBatchSize)
	for first := range j.queue {
		batch = append(batch[:0], first)
	fill:
		for len(batch) < journalBatchSize {
			select {
			case next, ok := <-j.queue:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		j.write(batch)
	}
}

func (j *Journal) write(batch []db.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.db.WithContext(ctx).Create(&batch).Error; err != nil {
		j.log.WithError(err).WithFields(logrus.Fields{
			"room_code": batch[0].RoomCode,
			"events":    len(batch),
		}).Warn("journal write failed")
	}
}

// Events returns the journal for a room in the order it was written.
func (j *Journal) Events(ctx context.Context, roomCode string) ([]db.Event, error) {
	var records []db.Event
	err := j.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: load events for %s: %w", roomCode, err)
	}
	return records, nil
}
