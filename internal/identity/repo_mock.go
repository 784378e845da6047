package identity

import (
	"context"
	"sync"
)

type repoMock struct {
	mutex  sync.Mutex
	lastID int64
	users  map[string]*User
}

func NewMockUsersRepo() *repoMock {
	return &repoMock{
		users: make(map[string]*User),
	}
}

func (r *repoMock) GetBySubject(_ context.Context, subject string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	u, ok := r.users[subject]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := *u
	return &user, nil
}

func (r *repoMock) Add(_ context.Context, user User) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.users[user.Subject]; ok {
		return nil, ErrUserExists
	}
	r.lastID++
	user.ID = r.lastID
	stored := user
	r.users[user.Subject] = &stored
	return &user, nil
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.users)
}
