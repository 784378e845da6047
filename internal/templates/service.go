package templates

import (
	"context"
	"time"

	"github.com/2beens/repcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type templatesRepo interface {
	Add(ctx context.Context, template Template) (*Template, error)
	Get(ctx context.Context, id int64) (*Template, error)
	Replace(ctx context.Context, template Template) error
	ListByBodyPart(ctx context.Context, bodyPart string) ([]Template, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      templatesRepo
	validator *Validator
	now       func() time.Time
}

func NewService(repo templatesRepo, validator *Validator) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, template Template) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.service.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.validator.Validate(ctx, template); err != nil {
		return nil, err
	}

	template.ID = 0
	template.CreatedAt = s.now()
	added, err := s.repo.Add(ctx, template)
	if err != nil {
		return nil, err
	}

	log.Debugf("template added: [%s] %d", added.Name, added.ID)
	return added, nil
}

// Update merges the partial update onto the stored template and validates
// the merged result before replacing it.
func (s *Service) Update(ctx context.Context, id int64, update Update) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.service.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("template.id", id))

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return existing, nil
	}

	merged := update.ApplyTo(*existing)
	if err := s.validator.Validate(ctx, merged); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Template, error) {
	return s.repo.Get(ctx, id)
}

// List lists templates of a body part; an empty body part lists all.
func (s *Service) List(ctx context.Context, bodyPart string) ([]Template, error) {
	return s.repo.ListByBodyPart(ctx, bodyPart)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
