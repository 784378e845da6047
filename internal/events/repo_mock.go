package events

import (
	"context"
	"sync"
)

type repoMock struct {
	mutex  sync.Mutex
	lastID int64
	events []Event
}

func NewMockRepo() *repoMock {
	return &repoMock{}
}

func (r *repoMock) Add(_ context.Context, event Event) (*Event, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lastID++
	event.ID = r.lastID
	r.events = append(r.events, event)
	return &event, nil
}

func (r *repoMock) ListForSession(_ context.Context, sessionID string) ([]Event, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	events := make([]Event, 0)
	for _, e := range r.events {
		if e.SessionID == sessionID {
			events = append(events, e)
		}
	}
	return events, nil
}
