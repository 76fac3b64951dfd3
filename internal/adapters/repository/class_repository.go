package repository

import (
	"context"
	"database/sql"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type ClassRepository struct {
	db *sql.DB
}

var _ ports.ClassRepository = (*ClassRepository)(nil)

func NewClassRepository(db *sql.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, subject_id, professor_id, schedule, room, created_at, updated_at"

// classDetailQuery resolves the subject and the professor with explicit
// joins; repositories return plain records, never lazy relations.
const classDetailQuery = `
	SELECT c.id, c.subject_id, c.professor_id, c.schedule, c.room, c.created_at, c.updated_at,
	       s.id, s.name, s.description, s.created_at, s.updated_at,
	       u.id, u.name, u.email
	FROM classes c
	JOIN subjects s ON s.id = c.subject_id
	JOIN users u ON u.id = c.professor_id`

func scanClass(row interface{ Scan(...any) error }) (*domain.Class, error) {
	var c domain.Class
	err := row.Scan(&c.ID, &c.SubjectID, &c.ProfessorID, &c.Schedule, &c.Room, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func scanClassDetail(row interface{ Scan(...any) error }) (*domain.ClassDetail, error) {
	var d domain.ClassDetail
	var subject domain.Subject
	var professor domain.UserSummary
	err := row.Scan(
		&d.ID, &d.SubjectID, &d.ProfessorID, &d.Schedule, &d.Room, &d.CreatedAt, &d.UpdatedAt,
		&subject.ID, &subject.Name, &subject.Description, &subject.CreatedAt, &subject.UpdatedAt,
		&professor.ID, &professor.Name, &professor.Email,
	)
	if err != nil {
		return nil, translate(err)
	}
	d.Subject = &subject
	d.Professor = &professor
	return &d, nil
}

func (r *ClassRepository) Create(ctx context.Context, class *domain.Class) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO classes (subject_id, professor_id, schedule, room)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		class.SubjectID, class.ProfessorID, class.Schedule, class.Room,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	return translate(err)
}

func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*domain.Class, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+classColumns+" FROM classes WHERE id = $1", id)
	return scanClass(row)
}

func (r *ClassRepository) FindDetailByID(ctx context.Context, id int64) (*domain.ClassDetail, error) {
	row := r.db.QueryRowContext(ctx, classDetailQuery+" WHERE c.id = $1", id)
	return scanClassDetail(row)
}

func (r *ClassRepository) ListDetails(ctx context.Context) ([]domain.ClassDetail, error) {
	return r.queryDetails(ctx, classDetailQuery+" ORDER BY c.schedule ASC")
}

func (r *ClassRepository) ListDetailsByProfessor(ctx context.Context, professorID int64) ([]domain.ClassDetail, error) {
	return r.queryDetails(ctx, classDetailQuery+" WHERE c.professor_id = $1 ORDER BY c.schedule ASC", professorID)
}

func (r *ClassRepository) ListAvailableForStudent(ctx context.Context, studentID int64) ([]domain.ClassDetail, error) {
	return r.queryDetails(ctx, classDetailQuery+`
		WHERE c.id NOT IN (SELECT class_id FROM enrollments WHERE student_id = $1)
		ORDER BY c.schedule ASC`, studentID)
}

func (r *ClassRepository) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Class, error) {
	return r.queryClasses(ctx, "SELECT "+classColumns+" FROM classes WHERE subject_id = $1 ORDER BY schedule ASC", subjectID)
}

func (r *ClassRepository) ListByProfessor(ctx context.Context, professorID int64) ([]domain.Class, error) {
	return r.queryClasses(ctx, "SELECT "+classColumns+" FROM classes WHERE professor_id = $1 ORDER BY schedule ASC", professorID)
}

func (r *ClassRepository) Update(ctx context.Context, class *domain.Class) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE classes
		SET subject_id = $2, professor_id = $3, schedule = $4, room = $5, updated_at = NOW()
		WHERE id = $1`,
		class.ID, class.SubjectID, class.ProfessorID, class.Schedule, class.Room,
	)
	return translate(err)
}

func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id)
	return translate(err)
}

func (r *ClassRepository) CountBySubject(ctx context.Context, subjectID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classes WHERE subject_id = $1", subjectID).Scan(&count)
	return count, translate(err)
}

func (r *ClassRepository) CountByProfessor(ctx context.Context, professorID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classes WHERE professor_id = $1", professorID).Scan(&count)
	return count, translate(err)
}

func (r *ClassRepository) queryDetails(ctx context.Context, query string, args ...any) ([]domain.ClassDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var details []domain.ClassDetail
	for rows.Next() {
		d, err := scanClassDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

func (r *ClassRepository) queryClasses(ctx context.Context, query string, args ...any) ([]domain.Class, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}
