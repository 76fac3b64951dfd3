package ports

import (
	"context"
	"errors"
	"time"

	"github.com/unisga/academic-service/internal/core/domain"
)

// Sentinel errors adapters translate storage failures into. Services wrap
// them with user-facing domain errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByResetToken matches only tokens that have not expired.
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	// List returns all users, optionally filtered by role, ordered by name.
	List(ctx context.Context, role domain.Role) ([]domain.User, error)
	// ListActiveByRole returns the public projection of active users of a role.
	ListActiveByRole(ctx context.Context, role domain.Role) ([]domain.UserSummary, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	// SaveResetToken stores the reset token and, in the same transaction,
	// appends the outbox event that triggers the recovery e-mail.
	SaveResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time, outboxPayload []byte) error
	// UpdatePassword replaces the credential hash and clears reset-token fields.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	FindByID(ctx context.Context, id int64) (*domain.Subject, error)
	FindByName(ctx context.Context, name string) (*domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
	Update(ctx context.Context, subject *domain.Subject) error
	Delete(ctx context.Context, id int64) error
}

type ClassRepository interface {
	Create(ctx context.Context, class *domain.Class) error
	FindByID(ctx context.Context, id int64) (*domain.Class, error)
	FindDetailByID(ctx context.Context, id int64) (*domain.ClassDetail, error)
	ListDetails(ctx context.Context) ([]domain.ClassDetail, error)
	ListDetailsByProfessor(ctx context.Context, professorID int64) ([]domain.ClassDetail, error)
	// ListAvailableForStudent returns classes the student is not enrolled in.
	ListAvailableForStudent(ctx context.Context, studentID int64) ([]domain.ClassDetail, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]domain.Class, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]domain.Class, error)
	Update(ctx context.Context, class *domain.Class) error
	Delete(ctx context.Context, id int64) error
	CountBySubject(ctx context.Context, subjectID int64) (int, error)
	CountByProfessor(ctx context.Context, professorID int64) (int, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	FindByID(ctx context.Context, id int64) (*domain.Enrollment, error)
	FindByStudentAndClass(ctx context.Context, studentID, classID int64) (*domain.Enrollment, error)
	FindDetailByID(ctx context.Context, id int64) (*domain.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]domain.Enrollment, error)
	ListDetailsByStudent(ctx context.Context, studentID int64) ([]domain.EnrollmentDetail, error)
	ListDetailsByClass(ctx context.Context, classID int64) ([]domain.EnrollmentDetail, error)
	ListAllDetails(ctx context.Context) ([]domain.EnrollmentDetail, error)
	ScheduleByStudent(ctx context.Context, studentID int64) ([]domain.ScheduleEntry, error)
	Delete(ctx context.Context, id int64) error
	CountByClass(ctx context.Context, classID int64) (int, error)
	CountByStudent(ctx context.Context, studentID int64) (int, error)
}
