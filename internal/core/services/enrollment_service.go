package services

import (
	"context"
	"errors"
	"time"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type EnrollmentService struct {
	enrollments ports.EnrollmentRepository
	classes     ports.ClassRepository
	users       ports.UserRepository
}

var _ ports.EnrollmentService = (*EnrollmentService)(nil)

func NewEnrollmentService(
	enrollments ports.EnrollmentRepository,
	classes ports.ClassRepository,
	users ports.UserRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		classes:     classes,
		users:       users,
	}
}

// Enroll registers the acting student in a class. The (student, class)
// uniqueness is ultimately guaranteed by the database constraint; the
// lookup here exists to produce the friendly duplicate message.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *domain.User, classID int64) (*domain.EnrollmentDetail, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Clase no encontrada")
		}
		return nil, err
	}

	if actor.Role != domain.RoleStudent {
		return nil, domain.Forbidden("Solo los estudiantes pueden inscribirse en clases")
	}

	if _, err := s.enrollments.FindByStudentAndClass(ctx, actor.ID, classID); err == nil {
		return nil, domain.Conflict("Ya estás inscrito en esta clase")
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		StudentID:  actor.ID,
		ClassID:    classID,
		EnrolledAt: time.Now(),
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, domain.Conflict("Ya estás inscrito en esta clase")
		}
		return nil, err
	}

	return s.enrollments.FindDetailByID(ctx, enrollment.ID)
}

func (s *EnrollmentService) ListMine(ctx context.Context, studentID int64) ([]domain.EnrollmentDetail, error) {
	return s.enrollments.ListDetailsByStudent(ctx, studentID)
}

func (s *EnrollmentService) ListByUser(ctx context.Context, userID int64) (*domain.UserSummary, []domain.EnrollmentDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, domain.NotFound("Usuario no encontrado")
		}
		return nil, nil, err
	}

	details, err := s.enrollments.ListDetailsByStudent(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	summary := user.Summary()
	return &summary, details, nil
}

func (s *EnrollmentService) ListAll(ctx context.Context) ([]domain.EnrollmentDetail, error) {
	return s.enrollments.ListAllDetails(ctx)
}

func (s *EnrollmentService) Cancel(ctx context.Context, actor *domain.User, id int64) (string, error) {
	detail, err := s.enrollments.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", domain.NotFound("Inscripción no encontrada")
		}
		return "", err
	}

	if err := domain.CanCancelEnrollment(actor, &detail.Enrollment); err != nil {
		return "", err
	}

	if err := s.enrollments.Delete(ctx, id); err != nil {
		return "", err
	}

	subjectName := ""
	if detail.Class != nil && detail.Class.Subject != nil {
		subjectName = detail.Class.Subject.Name
	}
	return subjectName, nil
}

func (s *EnrollmentService) AvailableClasses(ctx context.Context, studentID int64) ([]domain.ClassDetail, error) {
	return s.classes.ListAvailableForStudent(ctx, studentID)
}

func (s *EnrollmentService) Schedule(ctx context.Context, studentID int64) ([]domain.ScheduleEntry, error) {
	return s.enrollments.ScheduleByStudent(ctx, studentID)
}
