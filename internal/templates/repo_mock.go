package templates

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

type repoMock struct {
	mutex     sync.Mutex
	lastID    int64
	templates map[int64]Template
}

func NewMockRepo() *repoMock {
	return &repoMock{
		templates: make(map[int64]Template),
	}
}

// clone deep copies through JSON so callers never share item slices
// with the stored template.
func clone(t Template) Template {
	tBytes, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	var c Template
	if err := json.Unmarshal(tBytes, &c); err != nil {
		panic(err)
	}
	c.CreatedAt = t.CreatedAt
	return c
}

func (r *repoMock) Add(_ context.Context, template Template) (*Template, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lastID++
	template.ID = r.lastID
	r.templates[template.ID] = clone(template)
	return &template, nil
}

func (r *repoMock) Get(_ context.Context, id int64) (*Template, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	t, ok := r.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	c := clone(t)
	return &c, nil
}

func (r *repoMock) Replace(_ context.Context, template Template) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.templates[template.ID]; !ok {
		return ErrTemplateNotFound
	}
	r.templates[template.ID] = clone(template)
	return nil
}

func (r *repoMock) ListByBodyPart(_ context.Context, bodyPart string) ([]Template, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	templates := make([]Template, 0)
	for _, t := range r.templates {
		if bodyPart == "" || t.BodyPart == bodyPart {
			templates = append(templates, clone(t))
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Name == templates[j].Name {
			return templates[i].ID < templates[j].ID
		}
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func (r *repoMock) Delete(_ context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}
