package services_test

import (
	"context"
	"testing"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/services"
	"github.com/unisga/academic-service/test/mocks"
)

func TestSubjectService_Create(t *testing.T) {
	subjects := mocks.NewMockSubjectRepository()
	classes := mocks.NewMockClassRepository()
	svc := services.NewSubjectService(subjects, classes)
	ctx := context.Background()

	subject, err := svc.Create(ctx, "Cálculo I", "Límites y derivadas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject.ID == 0 {
		t.Error("expected the created subject to have an ID")
	}

	_, err = svc.Create(ctx, "Cálculo I", "otra descripción")
	if err == nil || err.Error() != "Ya existe una asignatura con ese nombre" {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Errorf("duplicate name must be a conflict, got kind %v", domain.KindOf(err))
	}
}

func TestSubjectService_Update_NameCollision(t *testing.T) {
	subjects := mocks.NewMockSubjectRepository()
	classes := mocks.NewMockClassRepository()
	svc := services.NewSubjectService(subjects, classes)
	ctx := context.Background()

	subjects.Seed(&domain.Subject{Name: "Cálculo I"})
	target := subjects.Seed(&domain.Subject{Name: "Física I"})

	name := "Cálculo I"
	if _, err := svc.Update(ctx, target.ID, &name, nil); err == nil || err.Error() != "Ya existe una asignatura con ese nombre" {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}

	// Re-saving the same name is not a collision.
	same := "Física I"
	desc := "Mecánica clásica"
	updated, err := svc.Update(ctx, target.ID, &same, &desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != desc {
		t.Errorf("expected description %q, got %q", desc, updated.Description)
	}
}

func TestSubjectService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		classCount int
		wantErr    string
	}{
		{name: "subject_with_classes_blocked", classCount: 3, wantErr: "No se puede eliminar. La asignatura tiene 3 clases asociadas"},
		{name: "unreferenced_subject_deleted", classCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subjects := mocks.NewMockSubjectRepository()
			classes := mocks.NewMockClassRepository()
			svc := services.NewSubjectService(subjects, classes)

			subject := subjects.Seed(&domain.Subject{Name: "Cálculo I"})
			for i := 0; i < tt.classCount; i++ {
				classes.Seed(&domain.Class{SubjectID: subject.ID, ProfessorID: 1, Schedule: "Lun 8-10", Room: "A101"})
			}

			err := svc.Delete(context.Background(), subject.ID)

			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				if len(subjects.DeletedIDs) != 0 {
					t.Error("blocked delete must not reach the repository")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(subjects.DeletedIDs) != 1 {
				t.Errorf("expected 1 delete, got %v", subjects.DeletedIDs)
			}
		})
	}

	t.Run("missing_subject_is_404", func(t *testing.T) {
		svc := services.NewSubjectService(mocks.NewMockSubjectRepository(), mocks.NewMockClassRepository())
		err := svc.Delete(context.Background(), 42)
		if err == nil || err.Error() != "Asignatura no encontrada" {
			t.Fatalf("expected not-found error, got %v", err)
		}
		if domain.KindOf(err) != domain.KindNotFound {
			t.Errorf("expected not-found kind, got %v", domain.KindOf(err))
		}
	})
}
