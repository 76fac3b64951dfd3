package services

import (
	"context"
	"errors"
	"log"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type UserService struct {
	users       ports.UserRepository
	classes     ports.ClassRepository
	enrollments ports.EnrollmentRepository
	cache       ports.IdentityCache
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(
	users ports.UserRepository,
	classes ports.ClassRepository,
	enrollments ports.EnrollmentRepository,
	cache ports.IdentityCache,
) *UserService {
	return &UserService{
		users:       users,
		classes:     classes,
		enrollments: enrollments,
		cache:       cache,
	}
}

func (s *UserService) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.users.List(ctx, role)
}

// Get returns the user together with the rows that reference them: classes
// for a professor, enrollments for a student.
func (s *UserService) Get(ctx context.Context, id int64) (*ports.UserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Usuario no encontrado")
		}
		return nil, err
	}

	detail := &ports.UserDetail{User: user}
	switch user.Role {
	case domain.RoleProfessor:
		detail.Classes, err = s.classes.ListByProfessor(ctx, id)
	case domain.RoleStudent:
		detail.Enrollments, err = s.enrollments.ListByStudent(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *UserService) Update(ctx context.Context, id int64, upd ports.UserUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NotFound("Usuario no encontrado")
		}
		return nil, err
	}

	if upd.Name != nil && *upd.Name != "" {
		user.Name = *upd.Name
	}

	if upd.Email != nil && *upd.Email != "" && *upd.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, *upd.Email)
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, domain.Conflict("El correo ya está en uso por otro usuario")
		}
		user.Email = *upd.Email
	}

	if upd.Role != nil && *upd.Role != "" {
		if !upd.Role.Valid() {
			return nil, domain.Validation("Rol inválido")
		}
		if err := s.guardRoleChange(ctx, user, *upd.Role); err != nil {
			return nil, err
		}
		user.Role = *upd.Role
	}

	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, domain.Conflict("El correo ya está en uso por otro usuario")
		}
		return nil, err
	}
	s.invalidate(ctx, user.ID)
	return user, nil
}

// guardRoleChange blocks a role change away from profesor/estudiante while
// dependent rows reference the user.
func (s *UserService) guardRoleChange(ctx context.Context, user *domain.User, newRole domain.Role) error {
	if user.Role == domain.RoleProfessor && newRole != domain.RoleProfessor {
		count, err := s.classes.CountByProfessor(ctx, user.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.Conflict("No se puede cambiar el rol. El profesor tiene %d clases asignadas", count)
		}
	}
	if user.Role == domain.RoleStudent && newRole != domain.RoleStudent {
		count, err := s.enrollments.CountByStudent(ctx, user.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.Conflict("No se puede cambiar el rol. El estudiante tiene %d inscripciones activas", count)
		}
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.NotFound("Usuario no encontrado")
		}
		return err
	}

	if user.Role == domain.RoleProfessor {
		count, err := s.classes.CountByProfessor(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.Conflict("No se puede eliminar. El profesor tiene %d clases asignadas", count)
		}
	}

	if user.Role == domain.RoleStudent {
		count, err := s.enrollments.CountByStudent(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.Conflict("No se puede eliminar. El estudiante tiene %d inscripciones activas", count)
		}
	}

	if err := domain.CanDeleteUser(actor, user); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) ListActiveProfessors(ctx context.Context) ([]domain.UserSummary, error) {
	return s.users.ListActiveByRole(ctx, domain.RoleProfessor)
}

func (s *UserService) ListActiveStudents(ctx context.Context) ([]domain.UserSummary, error) {
	return s.users.ListActiveByRole(ctx, domain.RoleStudent)
}

// invalidate drops the cached identity so role and active-flag changes take
// effect on the next authenticated request.
func (s *UserService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("user service: cache invalidation failed for user %d: %v", id, err)
	}
}
