package domain

import "time"

type Class struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"id_asignatura"`
	ProfessorID int64     `json:"id_profesor"`
	Schedule    string    `json:"horario"`
	Room        string    `json:"salon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClassDetail enriches a class with its subject and professor, resolved
// by explicit repository lookups rather than implicit joins.
type ClassDetail struct {
	Class
	Subject     *Subject           `json:"asignatura,omitempty"`
	Professor   *UserSummary       `json:"profesor,omitempty"`
	Enrollments []EnrollmentDetail `json:"enrollments,omitempty"`
}
