package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/internal/repository"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

func cs101() models.Course {
	return models.Course{ID: 1, Code: "CS101", Title: "Introduction to Programming", Credits: 3, Semester: strPtr("FALL"), Department: strPtr("CS"), Description: strPtr("basics")}
}

func TestCourseServiceCreateConflict(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	svc := NewCourseService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "Again", Credits: 3})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "course with code CS101 already exists", appErr.Message)
	assert.Len(t, repo.courses, 1)
	assert.Zero(t, repo.createCalls)
}

func TestCourseServiceCreateRaceReportedAsConflict(t *testing.T) {
	repo := newMockCourseRepo()
	repo.createErr = repository.ErrDuplicate
	svc := NewCourseService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCourseRequest{Code: "CS999", Title: "Race", Credits: 1})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestCourseServiceUpdatePatch(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	svc := NewCourseService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), 1, dto.UpdateCoursePatch{Title: strPtr("Programming I"), Credits: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, "CS101", updated.Code)
	assert.Equal(t, "Programming I", updated.Title)
	assert.Equal(t, 4, updated.Credits)
	assert.Equal(t, "basics", *updated.Description)
	assert.Equal(t, "FALL", *updated.Semester)
}

func TestCourseServiceUpdateEmptyPatchIsNoop(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	svc := NewCourseService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), 1, dto.UpdateCoursePatch{})
	require.NoError(t, err)
	original := cs101()
	assert.Equal(t, original.Title, updated.Title)
	assert.Equal(t, original.Credits, updated.Credits)
	assert.Equal(t, *original.Department, *updated.Department)
}

func TestCourseServiceUpdateCodeChange(t *testing.T) {
	other := models.Course{ID: 2, Code: "CS102", Title: "Data", Credits: 3}
	repo := newMockCourseRepo(cs101(), other)
	svc := NewCourseService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), 1, dto.UpdateCoursePatch{Code: strPtr("CS102")})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	updated, err := svc.Update(context.Background(), 1, dto.UpdateCoursePatch{Code: strPtr("CS110")})
	require.NoError(t, err)
	assert.Equal(t, "CS110", updated.Code)
}

func TestCourseServiceGetMissing(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), nil, nil, nil)

	_, err := svc.Get(context.Background(), 5)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "course not found with id: 5", appErrors.FromError(err).Message)

	_, err = svc.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCourseServiceUpdateMissing(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	svc := NewCourseService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), 42, dto.UpdateCoursePatch{Title: strPtr("Ghost")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "course not found with id: 42", appErrors.FromError(err).Message)
	assert.Zero(t, repo.updateCalls)
	assert.Equal(t, "Introduction to Programming", repo.courses[1].Title)
}

func TestCourseServiceDeleteMissing(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	svc := NewCourseService(repo, nil, nil, nil)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Zero(t, repo.deleteCalls)
	assert.Len(t, repo.courses, 1)
}

func TestCourseServiceDelete(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	svc := NewCourseService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, 1, repo.deleteCalls)
	assert.Empty(t, repo.courses)
}

func TestCourseServiceQueries(t *testing.T) {
	repo := newMockCourseRepo(
		cs101(),
		models.Course{ID: 2, Code: "MA201", Title: "Linear Algebra", Credits: 4, Semester: strPtr("SPRING"), Department: strPtr("MATH")},
		models.Course{ID: 3, Code: "CS301", Title: "Advanced Programming", Credits: 5, Semester: strPtr("SPRING"), Department: strPtr("CS")},
	)
	svc := NewCourseService(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	found, err := svc.SearchByTitle(ctx, "PROGRAMMING")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	inRange, err := svc.ListByCreditsRange(ctx, 3, 4)
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	csSpring, err := svc.ListByDepartmentAndSemester(ctx, "CS", "SPRING")
	require.NoError(t, err)
	require.Len(t, csSpring, 1)
	assert.Equal(t, "CS301", csSpring[0].Code)

	exists, err := svc.ExistsByCode(ctx, "MA201")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCourseServiceWriteInvalidatesCache(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewCourseService(repo, cache, nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(ctx, dto.CreateCourseRequest{Code: "CS102", Title: "Data", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"courses:*"}, store.deleted)

	courses, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestCourseServiceListSkipsCacheWhenWriteLandsDuringLoad(t *testing.T) {
	repo := newMockCourseRepo(cs101())
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewCourseService(repo, cache, nil, nil)
	ctx := context.Background()

	repo.onList = func() {
		repo.onList = nil
		_, err := svc.Update(ctx, 1, dto.UpdateCoursePatch{Title: strPtr("Programming I")})
		require.NoError(t, err)
	}
	stale, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "Introduction to Programming", stale[0].Title)
	assert.NotContains(t, store.entries, cacheKeyCourses)

	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "Programming I", fresh[0].Title)
	assert.Equal(t, 2, repo.listCalls)
	assert.Contains(t, store.entries, cacheKeyCourses)
}
