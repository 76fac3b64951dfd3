package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

// MockSubjectRepository is an in-memory ports.SubjectRepository.
type MockSubjectRepository struct {
	mu       sync.Mutex
	Subjects map[int64]*domain.Subject
	nextID   int64

	CreateError error
	FindError   error
	ListError   error
	UpdateError error
	DeleteError error

	DeletedIDs []int64
}

var _ ports.SubjectRepository = (*MockSubjectRepository)(nil)

func NewMockSubjectRepository() *MockSubjectRepository {
	return &MockSubjectRepository{Subjects: make(map[int64]*domain.Subject)}
}

func (m *MockSubjectRepository) Seed(subject *domain.Subject) *domain.Subject {
	m.mu.Lock()
	defer m.mu.Unlock()
	if subject.ID == 0 {
		m.nextID++
		subject.ID = m.nextID
	} else if subject.ID > m.nextID {
		m.nextID = subject.ID
	}
	copied := *subject
	m.Subjects[copied.ID] = &copied
	return subject
}

func (m *MockSubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Subjects {
		if existing.Name == subject.Name {
			return ports.ErrDuplicate
		}
	}
	m.nextID++
	subject.ID = m.nextID
	subject.CreatedAt = time.Now()
	subject.UpdatedAt = subject.CreatedAt
	copied := *subject
	m.Subjects[subject.ID] = &copied
	return nil
}

func (m *MockSubjectRepository) FindByID(ctx context.Context, id int64) (*domain.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	subject, ok := m.Subjects[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *subject
	return &copied, nil
}

func (m *MockSubjectRepository) FindByName(ctx context.Context, name string) (*domain.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, subject := range m.Subjects {
		if subject.Name == name {
			copied := *subject
			return &copied, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *MockSubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Subject
	for _, subject := range m.Subjects {
		out = append(out, *subject)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockSubjectRepository) Update(ctx context.Context, subject *domain.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Subjects[subject.ID]; !ok {
		return ports.ErrNotFound
	}
	subject.UpdatedAt = time.Now()
	copied := *subject
	m.Subjects[subject.ID] = &copied
	return nil
}

func (m *MockSubjectRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	delete(m.Subjects, id)
	return nil
}

// MockClassRepository is an in-memory ports.ClassRepository. Detail
// lookups resolve subject and professor from the linked mocks when set.
type MockClassRepository struct {
	mu      sync.Mutex
	Classes map[int64]*domain.Class
	nextID  int64

	// Optional links for assembling ClassDetail values.
	SubjectRepo *MockSubjectRepository
	UserRepo    *MockUserRepository

	CreateError error
	FindError   error
	ListError   error
	UpdateError error
	DeleteError error
	CountError  error

	DeletedIDs []int64
}

var _ ports.ClassRepository = (*MockClassRepository)(nil)

func NewMockClassRepository() *MockClassRepository {
	return &MockClassRepository{Classes: make(map[int64]*domain.Class)}
}

func (m *MockClassRepository) Seed(class *domain.Class) *domain.Class {
	m.mu.Lock()
	defer m.mu.Unlock()
	if class.ID == 0 {
		m.nextID++
		class.ID = m.nextID
	} else if class.ID > m.nextID {
		m.nextID = class.ID
	}
	copied := *class
	m.Classes[copied.ID] = &copied
	return class
}

func (m *MockClassRepository) detail(ctx context.Context, class domain.Class) domain.ClassDetail {
	detail := domain.ClassDetail{Class: class}
	if m.SubjectRepo != nil {
		if subject, err := m.SubjectRepo.FindByID(ctx, class.SubjectID); err == nil {
			detail.Subject = subject
		}
	}
	if m.UserRepo != nil {
		if professor, err := m.UserRepo.FindByID(ctx, class.ProfessorID); err == nil {
			summary := professor.Summary()
			detail.Professor = &summary
		}
	}
	return detail
}

func (m *MockClassRepository) Create(ctx context.Context, class *domain.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	m.nextID++
	class.ID = m.nextID
	class.CreatedAt = time.Now()
	class.UpdatedAt = class.CreatedAt
	copied := *class
	m.Classes[class.ID] = &copied
	return nil
}

func (m *MockClassRepository) FindByID(ctx context.Context, id int64) (*domain.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	class, ok := m.Classes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *class
	return &copied, nil
}

func (m *MockClassRepository) FindDetailByID(ctx context.Context, id int64) (*domain.ClassDetail, error) {
	class, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := m.detail(ctx, *class)
	return &detail, nil
}

func (m *MockClassRepository) listSorted() []domain.Class {
	var out []domain.Class
	for _, class := range m.Classes {
		out = append(out, *class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Schedule < out[j].Schedule })
	return out
}

func (m *MockClassRepository) ListDetails(ctx context.Context) ([]domain.ClassDetail, error) {
	m.mu.Lock()
	classes := m.listSorted()
	err := m.ListError
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []domain.ClassDetail
	for _, class := range classes {
		out = append(out, m.detail(ctx, class))
	}
	return out, nil
}

func (m *MockClassRepository) ListDetailsByProfessor(ctx context.Context, professorID int64) ([]domain.ClassDetail, error) {
	all, err := m.ListDetails(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.ClassDetail
	for _, detail := range all {
		if detail.ProfessorID == professorID {
			out = append(out, detail)
		}
	}
	return out, nil
}

func (m *MockClassRepository) ListAvailableForStudent(ctx context.Context, studentID int64) ([]domain.ClassDetail, error) {
	// Enrollment filtering lives in MockEnrollmentRepository; tests that
	// need it seed only the classes the student can still join.
	return m.ListDetails(ctx)
}

func (m *MockClassRepository) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Class
	for _, class := range m.listSorted() {
		if class.SubjectID == subjectID {
			out = append(out, class)
		}
	}
	return out, nil
}

func (m *MockClassRepository) ListByProfessor(ctx context.Context, professorID int64) ([]domain.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Class
	for _, class := range m.listSorted() {
		if class.ProfessorID == professorID {
			out = append(out, class)
		}
	}
	return out, nil
}

func (m *MockClassRepository) Update(ctx context.Context, class *domain.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Classes[class.ID]; !ok {
		return ports.ErrNotFound
	}
	class.UpdatedAt = time.Now()
	copied := *class
	m.Classes[class.ID] = &copied
	return nil
}

func (m *MockClassRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	delete(m.Classes, id)
	return nil
}

func (m *MockClassRepository) CountBySubject(ctx context.Context, subjectID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	count := 0
	for _, class := range m.Classes {
		if class.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

func (m *MockClassRepository) CountByProfessor(ctx context.Context, professorID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	count := 0
	for _, class := range m.Classes {
		if class.ProfessorID == professorID {
			count++
		}
	}
	return count, nil
}

// MockEnrollmentRepository is an in-memory ports.EnrollmentRepository.
type MockEnrollmentRepository struct {
	mu          sync.Mutex
	Enrollments map[int64]*domain.Enrollment
	nextID      int64

	ClassRepo *MockClassRepository
	UserRepo  *MockUserRepository

	CreateError error
	FindError   error
	ListError   error
	DeleteError error
	CountError  error

	DeletedIDs []int64
}

var _ ports.EnrollmentRepository = (*MockEnrollmentRepository)(nil)

func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{Enrollments: make(map[int64]*domain.Enrollment)}
}

func (m *MockEnrollmentRepository) Seed(enrollment *domain.Enrollment) *domain.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enrollment.ID == 0 {
		m.nextID++
		enrollment.ID = m.nextID
	} else if enrollment.ID > m.nextID {
		m.nextID = enrollment.ID
	}
	copied := *enrollment
	m.Enrollments[copied.ID] = &copied
	return enrollment
}

func (m *MockEnrollmentRepository) detail(ctx context.Context, enrollment domain.Enrollment) domain.EnrollmentDetail {
	detail := domain.EnrollmentDetail{Enrollment: enrollment}
	if m.ClassRepo != nil {
		if class, err := m.ClassRepo.FindDetailByID(ctx, enrollment.ClassID); err == nil {
			detail.Class = class
		}
	}
	if m.UserRepo != nil {
		if student, err := m.UserRepo.FindByID(ctx, enrollment.StudentID); err == nil {
			summary := student.Summary()
			detail.Student = &summary
		}
	}
	return detail
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Enrollments {
		if existing.StudentID == enrollment.StudentID && existing.ClassID == enrollment.ClassID {
			return ports.ErrDuplicate
		}
	}
	m.nextID++
	enrollment.ID = m.nextID
	enrollment.CreatedAt = time.Now()
	copied := *enrollment
	m.Enrollments[enrollment.ID] = &copied
	return nil
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	enrollment, ok := m.Enrollments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *enrollment
	return &copied, nil
}

func (m *MockEnrollmentRepository) FindByStudentAndClass(ctx context.Context, studentID, classID int64) (*domain.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, enrollment := range m.Enrollments {
		if enrollment.StudentID == studentID && enrollment.ClassID == classID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *MockEnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*domain.EnrollmentDetail, error) {
	enrollment, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := m.detail(ctx, *enrollment)
	return &detail, nil
}

func (m *MockEnrollmentRepository) listSorted() []domain.Enrollment {
	var out []domain.Enrollment
	for _, enrollment := range m.Enrollments {
		out = append(out, *enrollment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out
}

func (m *MockEnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Enrollment
	for _, enrollment := range m.listSorted() {
		if enrollment.StudentID == studentID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (m *MockEnrollmentRepository) ListDetailsByStudent(ctx context.Context, studentID int64) ([]domain.EnrollmentDetail, error) {
	enrollments, err := m.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var out []domain.EnrollmentDetail
	for _, enrollment := range enrollments {
		out = append(out, m.detail(ctx, enrollment))
	}
	return out, nil
}

func (m *MockEnrollmentRepository) ListDetailsByClass(ctx context.Context, classID int64) ([]domain.EnrollmentDetail, error) {
	m.mu.Lock()
	enrollments := m.listSorted()
	err := m.ListError
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []domain.EnrollmentDetail
	for _, enrollment := range enrollments {
		if enrollment.ClassID == classID {
			out = append(out, m.detail(ctx, enrollment))
		}
	}
	return out, nil
}

func (m *MockEnrollmentRepository) ListAllDetails(ctx context.Context) ([]domain.EnrollmentDetail, error) {
	m.mu.Lock()
	enrollments := m.listSorted()
	err := m.ListError
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []domain.EnrollmentDetail
	for _, enrollment := range enrollments {
		out = append(out, m.detail(ctx, enrollment))
	}
	return out, nil
}

func (m *MockEnrollmentRepository) ScheduleByStudent(ctx context.Context, studentID int64) ([]domain.ScheduleEntry, error) {
	details, err := m.ListDetailsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var out []domain.ScheduleEntry
	for _, detail := range details {
		entry := domain.ScheduleEntry{
			EnrollmentID: detail.ID,
			EnrolledAt:   detail.EnrolledAt,
		}
		if detail.Class != nil {
			entry.Schedule = detail.Class.Schedule
			entry.Room = detail.Class.Room
			if detail.Class.Subject != nil {
				entry.Subject = detail.Class.Subject.Name
			}
			if detail.Class.Professor != nil {
				entry.Professor = detail.Class.Professor.Name
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Schedule < out[j].Schedule })
	return out, nil
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	delete(m.Enrollments, id)
	return nil
}

func (m *MockEnrollmentRepository) CountByClass(ctx context.Context, classID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	count := 0
	for _, enrollment := range m.Enrollments {
		if enrollment.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func (m *MockEnrollmentRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	count := 0
	for _, enrollment := range m.Enrollments {
		if enrollment.StudentID == studentID {
			count++
		}
	}
	return count, nil
}
