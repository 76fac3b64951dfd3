package repository

import (
	"context"
	"database/sql"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type EnrollmentRepository struct {
	db *sql.DB
}

var _ ports.EnrollmentRepository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = "id, student_id, class_id, enrolled_at, created_at"

const enrollmentDetailQuery = `
	SELECT e.id, e.student_id, e.class_id, e.enrolled_at, e.created_at,
	       c.id, c.subject_id, c.professor_id, c.schedule, c.room, c.created_at, c.updated_at,
	       s.id, s.name, s.description, s.created_at, s.updated_at,
	       p.id, p.name, p.email,
	       st.id, st.name, st.email
	FROM enrollments e
	JOIN classes c ON c.id = e.class_id
	JOIN subjects s ON s.id = c.subject_id
	JOIN users p ON p.id = c.professor_id
	JOIN users st ON st.id = e.student_id`

func scanEnrollment(row interface{ Scan(...any) error }) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := row.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.EnrolledAt, &e.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func scanEnrollmentDetail(row interface{ Scan(...any) error }) (*domain.EnrollmentDetail, error) {
	var d domain.EnrollmentDetail
	var class domain.ClassDetail
	var subject domain.Subject
	var professor domain.UserSummary
	var student domain.UserSummary
	err := row.Scan(
		&d.ID, &d.StudentID, &d.ClassID, &d.EnrolledAt, &d.CreatedAt,
		&class.ID, &class.SubjectID, &class.ProfessorID, &class.Schedule, &class.Room, &class.CreatedAt, &class.UpdatedAt,
		&subject.ID, &subject.Name, &subject.Description, &subject.CreatedAt, &subject.UpdatedAt,
		&professor.ID, &professor.Name, &professor.Email,
		&student.ID, &student.Name, &student.Email,
	)
	if err != nil {
		return nil, translate(err)
	}
	class.Subject = &subject
	class.Professor = &professor
	d.Class = &class
	d.Student = &student
	return &d, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO enrollments (student_id, class_id, enrolled_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		enrollment.StudentID, enrollment.ClassID, enrollment.EnrolledAt,
	).Scan(&enrollment.ID, &enrollment.CreatedAt)
	return translate(err)
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+enrollmentColumns+" FROM enrollments WHERE id = $1", id)
	return scanEnrollment(row)
}

func (r *EnrollmentRepository) FindByStudentAndClass(ctx context.Context, studentID, classID int64) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+enrollmentColumns+` FROM enrollments
		WHERE student_id = $1 AND class_id = $2`, studentID, classID)
	return scanEnrollment(row)
}

func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*domain.EnrollmentDetail, error) {
	row := r.db.QueryRowContext(ctx, enrollmentDetailQuery+" WHERE e.id = $1", id)
	return scanEnrollmentDetail(row)
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+enrollmentColumns+` FROM enrollments
		WHERE student_id = $1
		ORDER BY enrolled_at DESC`, studentID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

func (r *EnrollmentRepository) ListDetailsByStudent(ctx context.Context, studentID int64) ([]domain.EnrollmentDetail, error) {
	return r.queryDetails(ctx, enrollmentDetailQuery+" WHERE e.student_id = $1 ORDER BY e.enrolled_at DESC", studentID)
}

func (r *EnrollmentRepository) ListDetailsByClass(ctx context.Context, classID int64) ([]domain.EnrollmentDetail, error) {
	return r.queryDetails(ctx, enrollmentDetailQuery+" WHERE e.class_id = $1 ORDER BY st.name ASC", classID)
}

func (r *EnrollmentRepository) ListAllDetails(ctx context.Context) ([]domain.EnrollmentDetail, error) {
	return r.queryDetails(ctx, enrollmentDetailQuery+" ORDER BY e.enrolled_at DESC")
}

func (r *EnrollmentRepository) ScheduleByStudent(ctx context.Context, studentID int64) ([]domain.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, s.name, p.name, c.schedule, c.room, e.enrolled_at
		FROM enrollments e
		JOIN classes c ON c.id = e.class_id
		JOIN subjects s ON s.id = c.subject_id
		JOIN users p ON p.id = c.professor_id
		WHERE e.student_id = $1
		ORDER BY c.schedule ASC`, studentID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var entry domain.ScheduleEntry
		err := rows.Scan(&entry.EnrollmentID, &entry.Subject, &entry.Professor, &entry.Schedule, &entry.Room, &entry.EnrolledAt)
		if err != nil {
			return nil, translate(err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id)
	return translate(err)
}

func (r *EnrollmentRepository) CountByClass(ctx context.Context, classID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollments WHERE class_id = $1", classID).Scan(&count)
	return count, translate(err)
}

func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollments WHERE student_id = $1", studentID).Scan(&count)
	return count, translate(err)
}

func (r *EnrollmentRepository) queryDetails(ctx context.Context, query string, args ...any) ([]domain.EnrollmentDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var details []domain.EnrollmentDetail
	for rows.Next() {
		d, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}
