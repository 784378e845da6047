package history

import (
	"context"
	"sync"
)

type repoMock struct {
	mutex       sync.Mutex
	lastID      int64
	assessments []Assessment
}

func NewMockRepo() *repoMock {
	return &repoMock{}
}

func (r *repoMock) Add(_ context.Context, assessment Assessment) (*Assessment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lastID++
	assessment.ID = r.lastID
	r.assessments = append(r.assessments, assessment)
	return &assessment, nil
}

func (r *repoMock) Latest(_ context.Context, filter AssessmentFilter) (map[int64]Assessment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	wanted := make(map[int64]bool, len(filter.ExerciseIDs))
	for _, id := range filter.ExerciseIDs {
		wanted[id] = true
	}

	latest := make(map[int64]Assessment)
	for _, a := range r.assessments {
		if !wanted[a.ExerciseID] {
			continue
		}
		if filter.UserID != nil {
			if a.UserID == nil || *a.UserID != *filter.UserID {
				continue
			}
		} else if filter.AnonKey == "" || a.AnonKey != filter.AnonKey {
			continue
		}
		current, ok := latest[a.ExerciseID]
		if !ok || a.CreatedAt.After(current.CreatedAt) ||
			(a.CreatedAt.Equal(current.CreatedAt) && a.ID > current.ID) {
			latest[a.ExerciseID] = a
		}
	}
	return latest, nil
}
