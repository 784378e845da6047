package progression

import (
	"context"
	"sync"
)

type repoMock struct {
	mutex    sync.Mutex
	profiles map[Key]Profile
}

func NewMockRepo() *repoMock {
	return &repoMock{
		profiles: make(map[Key]Profile),
	}
}

func (r *repoMock) Get(_ context.Context, key Key) (*Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.profiles[key]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (r *repoMock) GetForExercises(_ context.Context, userID int64, exerciseIDs []int64) (map[int64]Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	profiles := make(map[int64]Profile, len(exerciseIDs))
	for _, exID := range exerciseIDs {
		if p, ok := r.profiles[Key{UserID: userID, ExerciseID: exID}]; ok {
			profiles[exID] = p
		}
	}
	return profiles, nil
}

func (r *repoMock) Upsert(_ context.Context, key Key, update func(*Profile)) (*Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.profiles[key]
	if !ok {
		p = Profile{UserID: key.UserID, ExerciseID: key.ExerciseID}
	}
	update(&p)
	p.UserID = key.UserID
	p.ExerciseID = key.ExerciseID
	r.profiles[key] = p
	return &p, nil
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.profiles)
}
