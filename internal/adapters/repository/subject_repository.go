package repository

import (
	"context"
	"database/sql"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type SubjectRepository struct {
	db *sql.DB
}

var _ ports.SubjectRepository = (*SubjectRepository)(nil)

func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = "id, name, description, created_at, updated_at"

func scanSubject(row interface{ Scan(...any) error }) (*domain.Subject, error) {
	var s domain.Subject
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO subjects (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		subject.Name, subject.Description,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	return translate(err)
}

func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+subjectColumns+" FROM subjects WHERE id = $1", id)
	return scanSubject(row)
}

func (r *SubjectRepository) FindByName(ctx context.Context, name string) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+subjectColumns+" FROM subjects WHERE name = $1", name)
	return scanSubject(row)
}

func (r *SubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+subjectColumns+" FROM subjects ORDER BY name ASC")
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, *s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Update(ctx context.Context, subject *domain.Subject) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subjects
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1`,
		subject.ID, subject.Name, subject.Description,
	)
	return translate(err)
}

func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = $1", id)
	return translate(err)
}
