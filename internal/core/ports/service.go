package ports

import (
	"context"

	"github.com/unisga/academic-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ForgotPassword never reveals whether the address is registered.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// UserUpdate carries the optional fields of an admin user edit; nil means
// "leave unchanged".
type UserUpdate struct {
	Name     *string
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// UserDetail is a user plus the records that reference them, depending on
// the role.
type UserDetail struct {
	User        *domain.User
	Classes     []domain.Class
	Enrollments []domain.Enrollment
}

type UserService interface {
	List(ctx context.Context, role domain.Role) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*UserDetail, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
	ListActiveProfessors(ctx context.Context) ([]domain.UserSummary, error)
	ListActiveStudents(ctx context.Context) ([]domain.UserSummary, error)
}

type SubjectService interface {
	List(ctx context.Context) ([]domain.Subject, error)
	Get(ctx context.Context, id int64) (*domain.Subject, []domain.Class, error)
	Create(ctx context.Context, name, description string) (*domain.Subject, error)
	Update(ctx context.Context, id int64, name, description *string) (*domain.Subject, error)
	Delete(ctx context.Context, id int64) error
}

// ClassUpdate carries the optional fields of a class edit. Professors may
// only change Schedule and Room; the service enforces that.
type ClassUpdate struct {
	SubjectID   *int64
	ProfessorID *int64
	Schedule    *string
	Room        *string
}

type ClassService interface {
	List(ctx context.Context) ([]domain.ClassDetail, error)
	Get(ctx context.Context, id int64) (*domain.ClassDetail, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]domain.ClassDetail, error)
	Create(ctx context.Context, subjectID, professorID int64, schedule, room string) (*domain.ClassDetail, error)
	Update(ctx context.Context, actor *domain.User, id int64, upd ClassUpdate) (*domain.ClassDetail, error)
	Delete(ctx context.Context, id int64) error
	Students(ctx context.Context, actor *domain.User, classID int64) (*domain.ClassDetail, []domain.EnrollmentDetail, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, actor *domain.User, classID int64) (*domain.EnrollmentDetail, error)
	ListMine(ctx context.Context, studentID int64) ([]domain.EnrollmentDetail, error)
	ListByUser(ctx context.Context, userID int64) (*domain.UserSummary, []domain.EnrollmentDetail, error)
	ListAll(ctx context.Context) ([]domain.EnrollmentDetail, error)
	// Cancel removes the enrollment and returns the subject name of the
	// cancelled class for the confirmation message.
	Cancel(ctx context.Context, actor *domain.User, id int64) (string, error)
	AvailableClasses(ctx context.Context, studentID int64) ([]domain.ClassDetail, error)
	Schedule(ctx context.Context, studentID int64) ([]domain.ScheduleEntry, error)
}
