package services_test

import (
	"context"
	"testing"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
	"github.com/unisga/academic-service/internal/core/services"
	"github.com/unisga/academic-service/test/mocks"
)

type userServiceFixture struct {
	users       *mocks.MockUserRepository
	classes     *mocks.MockClassRepository
	enrollments *mocks.MockEnrollmentRepository
	cache       *mocks.MockIdentityCache
	svc         *services.UserService
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		users:       mocks.NewMockUserRepository(),
		classes:     mocks.NewMockClassRepository(),
		enrollments: mocks.NewMockEnrollmentRepository(),
		cache:       mocks.NewMockIdentityCache(),
	}
	f.svc = services.NewUserService(f.users, f.classes, f.enrollments, f.cache)
	return f
}

func TestUserService_Update_RoleChangeGuards(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	rolePtr := func(r domain.Role) *domain.Role { return &r }

	tests := []struct {
		name    string
		setup   func(*userServiceFixture) int64
		upd     ports.UserUpdate
		wantErr string
	}{
		{
			name: "professor_with_classes_cannot_change_role",
			setup: func(f *userServiceFixture) int64 {
				prof := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
				f.classes.Seed(&domain.Class{SubjectID: 1, ProfessorID: prof.ID, Schedule: "Lun 8-10", Room: "A101"})
				f.classes.Seed(&domain.Class{SubjectID: 2, ProfessorID: prof.ID, Schedule: "Mar 8-10", Room: "A102"})
				return prof.ID
			},
			upd:     ports.UserUpdate{Role: rolePtr(domain.RoleAdmin)},
			wantErr: "No se puede cambiar el rol. El profesor tiene 2 clases asignadas",
		},
		{
			name: "student_with_enrollments_cannot_change_role",
			setup: func(f *userServiceFixture) int64 {
				st := f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
				f.enrollments.Seed(&domain.Enrollment{StudentID: st.ID, ClassID: 1})
				return st.ID
			},
			upd:     ports.UserUpdate{Role: rolePtr(domain.RoleProfessor)},
			wantErr: "No se puede cambiar el rol. El estudiante tiene 1 inscripciones activas",
		},
		{
			name: "professor_without_classes_may_change_role",
			setup: func(f *userServiceFixture) int64 {
				prof := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
				return prof.ID
			},
			upd: ports.UserUpdate{Role: rolePtr(domain.RoleAdmin)},
		},
		{
			name: "email_collision_rejected",
			setup: func(f *userServiceFixture) int64 {
				f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
				other := f.users.Seed(&domain.User{Name: "Eva", Email: "eva@uni.edu", Role: domain.RoleStudent, IsActive: true})
				return other.ID
			},
			upd:     ports.UserUpdate{Email: strPtr("ana@uni.edu")},
			wantErr: "El correo ya está en uso por otro usuario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserServiceFixture()
			id := tt.setup(f)

			updated, err := f.svc.Update(context.Background(), id, tt.upd)

			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.upd.Role != nil && updated.Role != *tt.upd.Role {
				t.Errorf("expected role %s, got %s", *tt.upd.Role, updated.Role)
			}
			if len(f.cache.InvalidatedIDs) != 1 || f.cache.InvalidatedIDs[0] != id {
				t.Errorf("expected cache invalidation for user %d, got %v", id, f.cache.InvalidatedIDs)
			}
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*userServiceFixture) (actor *domain.User, targetID int64)
		wantErr string
	}{
		{
			name: "professor_with_classes_blocked",
			setup: func(f *userServiceFixture) (*domain.User, int64) {
				admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})
				prof := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
				f.classes.Seed(&domain.Class{SubjectID: 1, ProfessorID: prof.ID, Schedule: "Lun 8-10", Room: "A101"})
				return admin, prof.ID
			},
			wantErr: "No se puede eliminar. El profesor tiene 1 clases asignadas",
		},
		{
			name: "student_with_enrollments_blocked",
			setup: func(f *userServiceFixture) (*domain.User, int64) {
				admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})
				st := f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
				f.enrollments.Seed(&domain.Enrollment{StudentID: st.ID, ClassID: 1})
				f.enrollments.Seed(&domain.Enrollment{StudentID: st.ID, ClassID: 2})
				return admin, st.ID
			},
			wantErr: "No se puede eliminar. El estudiante tiene 2 inscripciones activas",
		},
		{
			name: "self_delete_blocked",
			setup: func(f *userServiceFixture) (*domain.User, int64) {
				admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})
				return admin, admin.ID
			},
			wantErr: "No puedes eliminar tu propia cuenta",
		},
		{
			name: "unreferenced_student_deleted",
			setup: func(f *userServiceFixture) (*domain.User, int64) {
				admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})
				st := f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
				return admin, st.ID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserServiceFixture()
			actor, targetID := tt.setup(f)

			err := f.svc.Delete(context.Background(), actor, targetID)

			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				if len(f.users.DeletedIDs) != 0 {
					t.Errorf("no delete must reach the repository, got %v", f.users.DeletedIDs)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(f.users.DeletedIDs) != 1 || f.users.DeletedIDs[0] != targetID {
				t.Errorf("expected delete of user %d, got %v", targetID, f.users.DeletedIDs)
			}
			if len(f.cache.InvalidatedIDs) != 1 {
				t.Errorf("expected cache invalidation after delete, got %v", f.cache.InvalidatedIDs)
			}
		})
	}
}

func TestUserService_Get_IncludesDependentRows(t *testing.T) {
	f := newUserServiceFixture()
	prof := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
	f.classes.Seed(&domain.Class{SubjectID: 1, ProfessorID: prof.ID, Schedule: "Lun 8-10", Room: "A101"})

	detail, err := f.svc.Get(context.Background(), prof.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Classes) != 1 {
		t.Errorf("expected the professor's classes to be attached, got %d", len(detail.Classes))
	}
	if detail.Enrollments != nil {
		t.Errorf("professors carry no enrollments, got %v", detail.Enrollments)
	}

	if _, err := f.svc.Get(context.Background(), 999); err == nil || err.Error() != "Usuario no encontrado" {
		t.Errorf("expected not-found error for missing user, got %v", err)
	}
}

func TestUserService_SelfDeleteMapsTo400(t *testing.T) {
	f := newUserServiceFixture()
	admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})

	err := f.svc.Delete(context.Background(), admin, admin.ID)
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("self delete must be a validation error, got kind %v", domain.KindOf(err))
	}
}
