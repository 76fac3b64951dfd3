package domain

import "time"

type Enrollment struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"id_usuario"`
	ClassID    int64     `json:"id_clase"`
	EnrolledAt time.Time `json:"fecha_inscripcion"`
	CreatedAt  time.Time `json:"created_at"`
}

// EnrollmentDetail enriches an enrollment with the class (and optionally
// the student) it links.
type EnrollmentDetail struct {
	Enrollment
	Class   *ClassDetail `json:"clase,omitempty"`
	Student *UserSummary `json:"estudiante,omitempty"`
}

// ScheduleEntry is the flattened view returned by the my-schedule listing.
type ScheduleEntry struct {
	EnrollmentID int64     `json:"enrollment_id"`
	Subject      string    `json:"asignatura"`
	Professor    string    `json:"profesor"`
	Schedule     string    `json:"horario"`
	Room         string    `json:"salon"`
	EnrolledAt   time.Time `json:"fecha_inscripcion"`
}
