package services

import (
	"context"
	"errors"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type SubjectService struct {
	subjects ports.SubjectRepository
	classes  ports.ClassRepository
}

var _ ports.SubjectService = (*SubjectService)(nil)

func NewSubjectService(subjects ports.SubjectRepository, classes ports.ClassRepository) *SubjectService {
	return &SubjectService{subjects: subjects, classes: classes}
}

func (s *SubjectService) List(ctx context.Context) ([]domain.Subject, error) {
	return s.subjects.List(ctx)
}

func (s *SubjectService) Get(ctx context.Context, id int64) (*domain.Subject, []domain.Class, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, domain.NotFound("Asignatura no encontrada")
		}
		return nil, nil, err
	}

	classes, err := s.classes.ListBySubject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return subject, classes, nil
}

func (s *SubjectService) Create(ctx context.Context, name, description string) (*domain.Subject, error) {
	if _, err := s.subjects.FindByName(ctx, name); err == nil {
		return nil, domain.Conflict("Ya existe una asignatura con ese nombre")
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}

	subject := &domain.Subject{Name: name, Description: description}
	if err := s.subjects.Create(ctx, subject); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, domain.Conflict("Ya existe una asignatura con ese nombre")
		}
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id int64, name, description *string) (*domain.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Asignatura no encontrada")
		}
		return nil, err
	}

	if name != nil && *name != "" && *name != subject.Name {
		if _, err := s.subjects.FindByName(ctx, *name); err == nil {
			return nil, domain.Conflict("Ya existe una asignatura con ese nombre")
		} else if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		subject.Name = *name
	}

	if description != nil {
		subject.Description = *description
	}

	if err := s.subjects.Update(ctx, subject); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, domain.Conflict("Ya existe una asignatura con ese nombre")
		}
		return nil, err
	}
	return subject, nil
}

// Delete rejects the removal of a subject that still has classes, keeping
// referential integrity without a cascade.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.subjects.FindByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.NotFound("Asignatura no encontrada")
		}
		return err
	}

	count, err := s.classes.CountBySubject(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.Conflict("No se puede eliminar. La asignatura tiene %d clases asociadas", count)
	}

	return s.subjects.Delete(ctx, id)
}
