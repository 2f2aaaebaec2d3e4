package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
)

type studentServiceMock struct {
	students    []models.Student
	student     *models.Student
	err         error
	lastID      int64
	lastKey     string
	lastYear    int
	lastCreate  dto.CreateStudentRequest
	lastPatch   dto.UpdateStudentPatch
	deleteCalls int
}

func (m *studentServiceMock) List(ctx context.Context) ([]models.Student, error) {
	return m.students, m.err
}

func (m *studentServiceMock) Get(ctx context.Context, id int64) (*models.Student, error) {
	m.lastID = id
	return m.student, m.err
}

func (m *studentServiceMock) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	m.lastKey = studentID
	return m.student, m.err
}

func (m *studentServiceMock) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	m.lastKey = email
	return m.student, m.err
}

func (m *studentServiceMock) ListByDepartment(ctx context.Context, department string) ([]models.Student, error) {
	m.lastKey = department
	return m.students, m.err
}

func (m *studentServiceMock) ListByYearOfStudy(ctx context.Context, year int) ([]models.Student, error) {
	m.lastYear = year
	return m.students, m.err
}

func (m *studentServiceMock) ListByDepartmentAndYear(ctx context.Context, department string, year int) ([]models.Student, error) {
	m.lastKey = department
	m.lastYear = year
	return m.students, m.err
}

func (m *studentServiceMock) SearchByName(ctx context.Context, keyword string) ([]models.Student, error) {
	m.lastKey = keyword
	return m.students, m.err
}

func (m *studentServiceMock) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	m.lastCreate = req
	return m.student, m.err
}

func (m *studentServiceMock) Update(ctx context.Context, id int64, patch dto.UpdateStudentPatch) (*models.Student, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.student, m.err
}

func (m *studentServiceMock) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	m.deleteCalls++
	return m.err
}

type courseServiceMock struct {
	courses  []models.Course
	course   *models.Course
	err      error
	lastID   int64
	lastKeys []string
	lastMin  int
	lastMax  int
	patch    dto.UpdateCoursePatch
}

func (m *courseServiceMock) List(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.err
}

func (m *courseServiceMock) Get(ctx context.Context, id int64) (*models.Course, error) {
	m.lastID = id
	return m.course, m.err
}

func (m *courseServiceMock) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	m.lastKeys = []string{code}
	return m.course, m.err
}

func (m *courseServiceMock) ListByDepartment(ctx context.Context, department string) ([]models.Course, error) {
	m.lastKeys = []string{department}
	return m.courses, m.err
}

func (m *courseServiceMock) ListBySemester(ctx context.Context, semester string) ([]models.Course, error) {
	m.lastKeys = []string{semester}
	return m.courses, m.err
}

func (m *courseServiceMock) ListByDepartmentAndSemester(ctx context.Context, department, semester string) ([]models.Course, error) {
	m.lastKeys = []string{department, semester}
	return m.courses, m.err
}

func (m *courseServiceMock) SearchByTitle(ctx context.Context, keyword string) ([]models.Course, error) {
	m.lastKeys = []string{keyword}
	return m.courses, m.err
}

func (m *courseServiceMock) ListByCreditsRange(ctx context.Context, min, max int) ([]models.Course, error) {
	m.lastMin, m.lastMax = min, max
	return m.courses, m.err
}

func (m *courseServiceMock) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	return m.course, m.err
}

func (m *courseServiceMock) Update(ctx context.Context, id int64, patch dto.UpdateCoursePatch) (*models.Course, error) {
	m.lastID = id
	m.patch = patch
	return m.course, m.err
}

func (m *courseServiceMock) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

type enrollmentServiceMock struct {
	details    []models.EnrollmentDetail
	detail     *models.EnrollmentDetail
	students   []models.Student
	courses    []models.Course
	count      int64
	enrolled   bool
	err        error
	lastID     int64
	lastKeys   []string
	lastStatus models.EnrollmentStatus
	lastGrade  *string
	lastCreate dto.CreateEnrollmentRequest
}

func (m *enrollmentServiceMock) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return m.details, m.err
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	m.lastID = id
	return m.detail, m.err
}

func (m *enrollmentServiceMock) ListByStudentID(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	m.lastKeys = []string{studentID}
	return m.details, m.err
}

func (m *enrollmentServiceMock) ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error) {
	m.lastKeys = []string{courseCode}
	return m.details, m.err
}

func (m *enrollmentServiceMock) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	m.lastStatus = status
	return m.details, m.err
}

func (m *enrollmentServiceMock) ListBySemester(ctx context.Context, semester string) ([]models.EnrollmentDetail, error) {
	m.lastKeys = []string{semester}
	return m.details, m.err
}

func (m *enrollmentServiceMock) ListByAcademicYear(ctx context.Context, academicYear string) ([]models.EnrollmentDetail, error) {
	m.lastKeys = []string{academicYear}
	return m.details, m.err
}

func (m *enrollmentServiceMock) ListBySemesterAndAcademicYear(ctx context.Context, semester, academicYear string) ([]models.EnrollmentDetail, error) {
	m.lastKeys = []string{semester, academicYear}
	return m.details, m.err
}

func (m *enrollmentServiceMock) StudentsInCourse(ctx context.Context, courseCode string) ([]models.Student, error) {
	m.lastKeys = []string{courseCode}
	return m.students, m.err
}

func (m *enrollmentServiceMock) CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	m.lastKeys = []string{studentID}
	return m.courses, m.err
}

func (m *enrollmentServiceMock) CountForCourse(ctx context.Context, courseCode string) (int64, error) {
	m.lastKeys = []string{courseCode}
	return m.count, m.err
}

func (m *enrollmentServiceMock) IsEnrolled(ctx context.Context, studentID, courseCode string) (bool, error) {
	m.lastKeys = []string{studentID, courseCode}
	return m.enrolled, m.err
}

func (m *enrollmentServiceMock) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	m.lastCreate = req
	return m.detail, m.err
}

func (m *enrollmentServiceMock) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.EnrollmentDetail, error) {
	m.lastID = id
	m.lastStatus = status
	return m.detail, m.err
}

func (m *enrollmentServiceMock) UpdateGrade(ctx context.Context, id int64, grade *string) (*models.EnrollmentDetail, error) {
	m.lastID = id
	m.lastGrade = grade
	return m.detail, m.err
}

func (m *enrollmentServiceMock) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

type rosterExporterMock struct {
	file       *dto.ExportFile
	err        error
	lastCode   string
	lastFormat dto.ExportFormat
}

func (m *rosterExporterMock) CourseRoster(ctx context.Context, courseCode string, format dto.ExportFormat) (*dto.ExportFile, error) {
	m.lastCode = courseCode
	m.lastFormat = format
	return m.file, m.err
}

type authServiceMock struct {
	login     *models.LoginResponse
	info      *models.UserInfo
	err       error
	lastLogin models.LoginRequest
	lastClaim *models.JWTClaims
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastLogin = req
	return m.login, m.err
}

func (m *authServiceMock) Me(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	m.lastClaim = claims
	return m.info, m.err
}

// newContext builds a test context; params are name/value pairs.
func newContext(method, target, body string, params ...string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	for i := 0; i+1 < len(params); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: params[i], Value: params[i+1]})
	}
	return c, w
}

func performRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
