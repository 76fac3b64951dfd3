package services_test

import (
	"context"
	"testing"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
	"github.com/unisga/academic-service/internal/core/services"
	"github.com/unisga/academic-service/test/mocks"
)

type classServiceFixture struct {
	classes     *mocks.MockClassRepository
	subjects    *mocks.MockSubjectRepository
	users       *mocks.MockUserRepository
	enrollments *mocks.MockEnrollmentRepository
	svc         *services.ClassService
}

func newClassServiceFixture() *classServiceFixture {
	f := &classServiceFixture{
		classes:     mocks.NewMockClassRepository(),
		subjects:    mocks.NewMockSubjectRepository(),
		users:       mocks.NewMockUserRepository(),
		enrollments: mocks.NewMockEnrollmentRepository(),
	}
	f.classes.SubjectRepo = f.subjects
	f.classes.UserRepo = f.users
	f.svc = services.NewClassService(f.classes, f.subjects, f.users, f.enrollments)
	return f
}

func TestClassService_Create(t *testing.T) {
	f := newClassServiceFixture()
	ctx := context.Background()

	subject := f.subjects.Seed(&domain.Subject{Name: "Cálculo I"})
	prof := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
	student := f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})

	t.Run("missing_subject_is_404", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 999, prof.ID, "Lun 8-10", "A101")
		if err == nil || err.Error() != "Asignatura no encontrada" {
			t.Fatalf("expected subject not-found, got %v", err)
		}
	})

	t.Run("non_professor_reference_is_404", func(t *testing.T) {
		_, err := f.svc.Create(ctx, subject.ID, student.ID, "Lun 8-10", "A101")
		if err == nil || err.Error() != "Profesor no encontrado o inválido" {
			t.Fatalf("expected invalid-professor error, got %v", err)
		}
		if domain.KindOf(err) != domain.KindNotFound {
			t.Errorf("wrong-role reference must look like a missing professor, got kind %v", domain.KindOf(err))
		}
	})

	t.Run("valid_references_create_and_return_detail", func(t *testing.T) {
		detail, err := f.svc.Create(ctx, subject.ID, prof.ID, "Lun 8-10", "A101")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Subject == nil || detail.Subject.ID != subject.ID {
			t.Error("expected the subject to be resolved in the detail")
		}
		if detail.Professor == nil || detail.Professor.ID != prof.ID {
			t.Error("expected the professor to be resolved in the detail")
		}
	})
}

func TestClassService_Update_OwnershipRules(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	int64Ptr := func(v int64) *int64 { return &v }

	setup := func() (*classServiceFixture, *domain.User, *domain.User, *domain.Class, *domain.Subject) {
		f := newClassServiceFixture()
		subject := f.subjects.Seed(&domain.Subject{Name: "Cálculo I"})
		other := f.subjects.Seed(&domain.Subject{Name: "Física I"})
		owner := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
		intruder := f.users.Seed(&domain.User{Name: "Marta", Email: "marta@uni.edu", Role: domain.RoleProfessor, IsActive: true})
		class := f.classes.Seed(&domain.Class{SubjectID: subject.ID, ProfessorID: owner.ID, Schedule: "Lun 8-10", Room: "A101"})
		return f, owner, intruder, class, other
	}

	t.Run("non_owner_professor_forbidden", func(t *testing.T) {
		f, _, intruder, class, _ := setup()
		_, err := f.svc.Update(context.Background(), intruder, class.ID, ports.ClassUpdate{Schedule: strPtr("Mar 8-10")})
		if err == nil || err.Error() != "No tienes permiso para editar esta clase" {
			t.Fatalf("expected forbidden error, got %v", err)
		}
		if domain.KindOf(err) != domain.KindForbidden {
			t.Errorf("expected forbidden kind, got %v", domain.KindOf(err))
		}
	})

	t.Run("owner_professor_changes_schedule_but_not_subject", func(t *testing.T) {
		f, owner, _, class, otherSubject := setup()
		detail, err := f.svc.Update(context.Background(), owner, class.ID, ports.ClassUpdate{
			SubjectID: int64Ptr(otherSubject.ID),
			Schedule:  strPtr("Mar 8-10"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Schedule != "Mar 8-10" {
			t.Errorf("expected schedule change to apply, got %q", detail.Schedule)
		}
		if detail.SubjectID == otherSubject.ID {
			t.Error("a professor must not be able to reassign the subject")
		}
	})

	t.Run("admin_reassigns_subject_and_professor", func(t *testing.T) {
		f, _, intruder, class, otherSubject := setup()
		admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})

		detail, err := f.svc.Update(context.Background(), admin, class.ID, ports.ClassUpdate{
			SubjectID:   int64Ptr(otherSubject.ID),
			ProfessorID: int64Ptr(intruder.ID),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.SubjectID != otherSubject.ID || detail.ProfessorID != intruder.ID {
			t.Errorf("expected both references reassigned, got subject %d professor %d", detail.SubjectID, detail.ProfessorID)
		}
	})

	t.Run("admin_reassignment_to_non_professor_rejected", func(t *testing.T) {
		f, _, _, class, _ := setup()
		admin := f.users.Seed(&domain.User{Name: "Root", Email: "root@uni.edu", Role: domain.RoleAdmin, IsActive: true})
		student := f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})

		_, err := f.svc.Update(context.Background(), admin, class.ID, ports.ClassUpdate{ProfessorID: &student.ID})
		if err == nil || err.Error() != "Profesor no encontrado o inválido" {
			t.Fatalf("expected invalid-professor error, got %v", err)
		}
	})
}

func TestClassService_Delete_EnrollmentGuard(t *testing.T) {
	f := newClassServiceFixture()
	ctx := context.Background()

	subject := f.subjects.Seed(&domain.Subject{Name: "Cálculo I"})
	class := f.classes.Seed(&domain.Class{SubjectID: subject.ID, ProfessorID: 1, Schedule: "Lun 8-10", Room: "A101"})
	f.enrollments.Seed(&domain.Enrollment{StudentID: 7, ClassID: class.ID})

	err := f.svc.Delete(ctx, class.ID)
	if err == nil || err.Error() != "No se puede eliminar. La clase tiene 1 inscripciones activas" {
		t.Fatalf("expected enrollment guard error, got %v", err)
	}
	if len(f.classes.DeletedIDs) != 0 {
		t.Error("blocked delete must not reach the repository")
	}

	empty := f.classes.Seed(&domain.Class{SubjectID: subject.ID, ProfessorID: 1, Schedule: "Mar 8-10", Room: "A102"})
	if err := f.svc.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("unexpected error deleting empty class: %v", err)
	}
}

func TestClassService_Students_Permissions(t *testing.T) {
	f := newClassServiceFixture()
	ctx := context.Background()

	subject := f.subjects.Seed(&domain.Subject{Name: "Cálculo I"})
	owner := f.users.Seed(&domain.User{Name: "Luis", Email: "luis@uni.edu", Role: domain.RoleProfessor, IsActive: true})
	intruder := f.users.Seed(&domain.User{Name: "Marta", Email: "marta@uni.edu", Role: domain.RoleProfessor, IsActive: true})
	student := f.users.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
	class := f.classes.Seed(&domain.Class{SubjectID: subject.ID, ProfessorID: owner.ID, Schedule: "Lun 8-10", Room: "A101"})

	f.enrollments.UserRepo = f.users
	f.enrollments.ClassRepo = f.classes
	f.enrollments.Seed(&domain.Enrollment{StudentID: student.ID, ClassID: class.ID})

	if _, _, err := f.svc.Students(ctx, intruder, class.ID); err == nil ||
		err.Error() != "No tienes permiso para ver los estudiantes de esta clase" {
		t.Fatalf("expected forbidden error for a foreign professor, got %v", err)
	}

	detail, enrollments, err := f.svc.Students(ctx, owner, class.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != class.ID {
		t.Errorf("expected class %d, got %d", class.ID, detail.ID)
	}
	if len(enrollments) != 1 || enrollments[0].Student == nil || enrollments[0].Student.ID != student.ID {
		t.Errorf("expected the enrolled student in the roster, got %+v", enrollments)
	}
}
