package catalog

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mutex     sync.Mutex
	lastID    int64
	exercises map[int64]Exercise
	// calls counts repo hits, used to assert cache behaviour
	calls int
}

func NewMockRepo(exercises ...Exercise) *repoMock {
	r := &repoMock{
		exercises: make(map[int64]Exercise),
	}
	for _, e := range exercises {
		if e.ID > r.lastID {
			r.lastID = e.ID
		}
		r.exercises[e.ID] = e
	}
	return r
}

func (r *repoMock) Add(_ context.Context, exercise Exercise) (*Exercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := exercise.Validate(); err != nil {
		return nil, err
	}
	r.lastID++
	exercise.ID = r.lastID
	r.exercises[exercise.ID] = exercise
	return &exercise, nil
}

func (r *repoMock) Get(_ context.Context, id int64) (*Exercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.calls++
	e, ok := r.exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &e, nil
}

func (r *repoMock) GetMultiple(_ context.Context, ids []int64) (map[int64]Exercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.calls++
	found := make(map[int64]Exercise, len(ids))
	for _, id := range ids {
		if e, ok := r.exercises[id]; ok {
			found[id] = e
		}
	}
	return found, nil
}

func (r *repoMock) ListByBodyPart(_ context.Context, bodyPart string) ([]Exercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.calls++
	exercises := make([]Exercise, 0)
	for _, e := range r.exercises {
		if bodyPart == "" || e.BodyPart == bodyPart {
			exercises = append(exercises, e)
		}
	}
	sort.Slice(exercises, func(i, j int) bool {
		if exercises[i].Name == exercises[j].Name {
			return exercises[i].ID < exercises[j].ID
		}
		return exercises[i].Name < exercises[j].Name
	})
	return exercises, nil
}

func (r *repoMock) Calls() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.calls
}
