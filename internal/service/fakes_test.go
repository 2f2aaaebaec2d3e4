package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/internal/repository"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

type mockStudentRepo struct {
	students  map[int64]models.Student
	nextID    int64
	listCalls int
	updated   []models.Student
	createErr error
	err       error

	createCalls int
	deleteCalls int
}

func newMockStudentRepo(students ...models.Student) *mockStudentRepo {
	m := &mockStudentRepo{students: make(map[int64]models.Student)}
	for _, s := range students {
		m.students[s.ID] = s
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
	}
	return m
}

func (m *mockStudentRepo) sorted(keep func(models.Student) bool) []models.Student {
	out := make([]models.Student, 0)
	for _, s := range m.students {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockStudentRepo) find(keep func(models.Student) bool) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.students {
		if keep(s) {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(models.Student) bool { return true }), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return m.find(func(s models.Student) bool { return s.ID == id })
}

func (m *mockStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return m.find(func(s models.Student) bool { return s.StudentID == studentID })
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return m.find(func(s models.Student) bool { return s.Email == email })
}

func (m *mockStudentRepo) ListByDepartment(ctx context.Context, department string) ([]models.Student, error) {
	return m.sorted(func(s models.Student) bool { return s.Department != nil && *s.Department == department }), nil
}

func (m *mockStudentRepo) ListByYearOfStudy(ctx context.Context, year int) ([]models.Student, error) {
	return m.sorted(func(s models.Student) bool { return s.YearOfStudy != nil && *s.YearOfStudy == year }), nil
}

func (m *mockStudentRepo) ListByDepartmentAndYear(ctx context.Context, department string, year int) ([]models.Student, error) {
	return m.sorted(func(s models.Student) bool {
		return s.Department != nil && *s.Department == department && s.YearOfStudy != nil && *s.YearOfStudy == year
	}), nil
}

func (m *mockStudentRepo) SearchByName(ctx context.Context, keyword string) ([]models.Student, error) {
	k := strings.ToLower(keyword)
	return m.sorted(func(s models.Student) bool {
		return strings.Contains(strings.ToLower(s.FirstName), k) || strings.Contains(strings.ToLower(s.LastName), k)
	}), nil
}

func (m *mockStudentRepo) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	_, err := m.FindByStudentID(ctx, studentID)
	return err == nil, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	student.ID = m.nextID
	student.CreatedAt = time.Now().UTC()
	student.UpdatedAt = student.CreatedAt
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	m.updated = append(m.updated, *student)
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	delete(m.students, id)
	return nil
}

type mockCourseRepo struct {
	courses   map[int64]models.Course
	nextID    int64
	listCalls int
	createErr error
	// onList runs after the listing is read and before it is returned.
	onList func()

	findByCodeCalls int
	createCalls     int
	updateCalls     int
	deleteCalls     int
}

func newMockCourseRepo(courses ...models.Course) *mockCourseRepo {
	m := &mockCourseRepo{courses: make(map[int64]models.Course)}
	for _, c := range courses {
		m.courses[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockCourseRepo) sorted(keep func(models.Course) bool) []models.Course {
	out := make([]models.Course, 0)
	for _, c := range m.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	m.listCalls++
	out := m.sorted(func(models.Course) bool { return true })
	if m.onList != nil {
		m.onList()
	}
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	m.findByCodeCalls++
	for _, c := range m.courses {
		if c.Code == code {
			found := c
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ListByDepartment(ctx context.Context, department string) ([]models.Course, error) {
	return m.sorted(func(c models.Course) bool { return c.Department != nil && *c.Department == department }), nil
}

func (m *mockCourseRepo) ListBySemester(ctx context.Context, semester string) ([]models.Course, error) {
	return m.sorted(func(c models.Course) bool { return c.Semester != nil && *c.Semester == semester }), nil
}

func (m *mockCourseRepo) ListByDepartmentAndSemester(ctx context.Context, department, semester string) ([]models.Course, error) {
	return m.sorted(func(c models.Course) bool {
		return c.Department != nil && *c.Department == department && c.Semester != nil && *c.Semester == semester
	}), nil
}

func (m *mockCourseRepo) SearchByTitle(ctx context.Context, keyword string) ([]models.Course, error) {
	k := strings.ToLower(keyword)
	return m.sorted(func(c models.Course) bool { return strings.Contains(strings.ToLower(c.Title), k) }), nil
}

func (m *mockCourseRepo) ListByCreditsRange(ctx context.Context, min, max int) ([]models.Course, error) {
	return m.sorted(func(c models.Course) bool { return c.Credits >= min && c.Credits <= max }), nil
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	course.ID = m.nextID
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.updateCalls++
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	delete(m.courses, id)
	return nil
}

// mockEnrollmentRepo joins against the student and course fakes like the SQL repository does.
type mockEnrollmentRepo struct {
	students    *mockStudentRepo
	courses     *mockCourseRepo
	enrollments map[int64]models.Enrollment
	nextID      int64
	// skipExistsCheck simulates a concurrent insert slipping past the pre-check.
	skipExistsCheck bool
	existsErr       error
	createErr       error

	createCalls int
	deleteCalls int
}

func newMockEnrollmentRepo(students *mockStudentRepo, courses *mockCourseRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{students: students, courses: courses, enrollments: make(map[int64]models.Enrollment)}
}

func (m *mockEnrollmentRepo) detail(e models.Enrollment) models.EnrollmentDetail {
	return models.EnrollmentDetail{Enrollment: e, Student: m.students.students[e.StudentID], Course: m.courses.courses[e.CourseID]}
}

func (m *mockEnrollmentRepo) filter(keep func(models.EnrollmentDetail) bool) []models.EnrollmentDetail {
	out := make([]models.EnrollmentDetail, 0)
	for _, e := range m.enrollments {
		d := m.detail(e)
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockEnrollmentRepo) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return m.filter(func(models.EnrollmentDetail) bool { return true }), nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := m.detail(e)
	return &d, nil
}

func (m *mockEnrollmentRepo) ListByStudentID(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return m.filter(func(d models.EnrollmentDetail) bool { return d.Student.StudentID == studentID }), nil
}

func (m *mockEnrollmentRepo) ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error) {
	return m.filter(func(d models.EnrollmentDetail) bool { return d.Course.Code == courseCode }), nil
}

func (m *mockEnrollmentRepo) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	return m.filter(func(d models.EnrollmentDetail) bool { return d.Status == status }), nil
}

func eq(p *string, v string) bool { return p != nil && *p == v }

func (m *mockEnrollmentRepo) ListBySemester(ctx context.Context, semester string) ([]models.EnrollmentDetail, error) {
	return m.filter(func(d models.EnrollmentDetail) bool { return eq(d.Semester, semester) }), nil
}

func (m *mockEnrollmentRepo) ListByAcademicYear(ctx context.Context, academicYear string) ([]models.EnrollmentDetail, error) {
	return m.filter(func(d models.EnrollmentDetail) bool { return eq(d.AcademicYear, academicYear) }), nil
}

func (m *mockEnrollmentRepo) ListBySemesterAndAcademicYear(ctx context.Context, semester, academicYear string) ([]models.EnrollmentDetail, error) {
	return m.filter(func(d models.EnrollmentDetail) bool { return eq(d.Semester, semester) && eq(d.AcademicYear, academicYear) }), nil
}

func (m *mockEnrollmentRepo) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.skipExistsCheck {
		return false, nil
	}
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ExistsByStudentIDAndCourseCode(ctx context.Context, studentID, courseCode string) (bool, error) {
	return len(m.filter(func(d models.EnrollmentDetail) bool {
		return d.Student.StudentID == studentID && d.Course.Code == courseCode
	})) > 0, nil
}

func (m *mockEnrollmentRepo) CountByCourseCode(ctx context.Context, courseCode string) (int64, error) {
	details, _ := m.ListByCourseCode(ctx, courseCode)
	return int64(len(details)), nil
}

func (m *mockEnrollmentRepo) StudentsByCourseCode(ctx context.Context, courseCode string) ([]models.Student, error) {
	details, _ := m.ListByCourseCode(ctx, courseCode)
	out := make([]models.Student, 0, len(details))
	for _, d := range details {
		out = append(out, d.Student)
	}
	return out, nil
}

func (m *mockEnrollmentRepo) CoursesByStudentID(ctx context.Context, studentID string) ([]models.Course, error) {
	details, _ := m.ListByStudentID(ctx, studentID)
	out := make([]models.Course, 0, len(details))
	for _, d := range details {
		out = append(out, d.Course)
	}
	return out, nil
}

// Create enforces the (student, course) unique index.
func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, e := range m.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	enrollment.ID = m.nextID
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	delete(m.enrollments, id)
	return nil
}

// memoryCache is a CacheRepository keeping JSON-free copies in a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]interface{})}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *[]models.Course:
		*d = v.([]models.Course)
	case *[]models.Student:
		*d = v.([]models.Student)
	}
	return nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.deleted = append(c.deleted, pattern)
	return nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
