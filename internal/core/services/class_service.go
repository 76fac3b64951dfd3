package services

import (
	"context"
	"errors"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type ClassService struct {
	classes     ports.ClassRepository
	subjects    ports.SubjectRepository
	users       ports.UserRepository
	enrollments ports.EnrollmentRepository
}

var _ ports.ClassService = (*ClassService)(nil)

func NewClassService(
	classes ports.ClassRepository,
	subjects ports.SubjectRepository,
	users ports.UserRepository,
	enrollments ports.EnrollmentRepository,
) *ClassService {
	return &ClassService{
		classes:     classes,
		subjects:    subjects,
		users:       users,
		enrollments: enrollments,
	}
}

func (s *ClassService) List(ctx context.Context) ([]domain.ClassDetail, error) {
	return s.classes.ListDetails(ctx)
}

func (s *ClassService) Get(ctx context.Context, id int64) (*domain.ClassDetail, error) {
	detail, err := s.classes.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Clase no encontrada")
		}
		return nil, err
	}

	detail.Enrollments, err = s.enrollments.ListDetailsByClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ClassService) ListByProfessor(ctx context.Context, professorID int64) ([]domain.ClassDetail, error) {
	details, err := s.classes.ListDetailsByProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].Enrollments, err = s.enrollments.ListDetailsByClass(ctx, details[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (s *ClassService) Create(ctx context.Context, subjectID, professorID int64, schedule, room string) (*domain.ClassDetail, error) {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Asignatura no encontrada")
		}
		return nil, err
	}

	if err := s.requireProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	class := &domain.Class{
		SubjectID:   subjectID,
		ProfessorID: professorID,
		Schedule:    schedule,
		Room:        room,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}
	return s.classes.FindDetailByID(ctx, class.ID)
}

// Update applies an edit under the ownership rules: a professor may touch
// only schedule and room of their own classes, an admin may reassign the
// subject and the professor as well, re-validating both references.
func (s *ClassService) Update(ctx context.Context, actor *domain.User, id int64, upd ports.ClassUpdate) (*domain.ClassDetail, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Clase no encontrada")
		}
		return nil, err
	}

	if err := domain.CanUpdateClass(actor, class); err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleAdmin {
		if upd.SubjectID != nil {
			if _, err := s.subjects.FindByID(ctx, *upd.SubjectID); err != nil {
				if errors.Is(err, ports.ErrNotFound) {
					return nil, domain.NotFound("Asignatura no encontrada")
				}
				return nil, err
			}
			class.SubjectID = *upd.SubjectID
		}
		if upd.ProfessorID != nil {
			if err := s.requireProfessor(ctx, *upd.ProfessorID); err != nil {
				return nil, err
			}
			class.ProfessorID = *upd.ProfessorID
		}
	}

	if upd.Schedule != nil && *upd.Schedule != "" {
		class.Schedule = *upd.Schedule
	}
	if upd.Room != nil && *upd.Room != "" {
		class.Room = *upd.Room
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}
	return s.classes.FindDetailByID(ctx, id)
}

func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.classes.FindByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.NotFound("Clase no encontrada")
		}
		return err
	}

	count, err := s.enrollments.CountByClass(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.Conflict("No se puede eliminar. La clase tiene %d inscripciones activas", count)
	}

	return s.classes.Delete(ctx, id)
}

func (s *ClassService) Students(ctx context.Context, actor *domain.User, classID int64) (*domain.ClassDetail, []domain.EnrollmentDetail, error) {
	detail, err := s.classes.FindDetailByID(ctx, classID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, domain.NotFound("Clase no encontrada")
		}
		return nil, nil, err
	}

	if err := domain.CanViewClassStudents(actor, &detail.Class); err != nil {
		return nil, nil, err
	}

	enrollments, err := s.enrollments.ListDetailsByClass(ctx, classID)
	if err != nil {
		return nil, nil, err
	}
	return detail, enrollments, nil
}

// requireProfessor resolves the referenced user and rejects with the same
// 404 whether the user is missing or holds another role.
func (s *ClassService) requireProfessor(ctx context.Context, userID int64) error {
	professor, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.NotFound("Profesor no encontrado o inválido")
		}
		return err
	}
	if professor.Role != domain.RoleProfessor {
		return domain.NotFound("Profesor no encontrado o inválido")
	}
	return nil
}
