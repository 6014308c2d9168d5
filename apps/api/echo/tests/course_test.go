package tests

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/coursedesk/apps/api/echo"
	"github.com/trezcool/coursedesk/core/course"
	"github.com/trezcool/coursedesk/tests"
)

func Test_courseApi(t *testing.T) {
	app := setup(t)
	ctx := context.Background()
	adm := testutil.CreateAdmin(t, app.repos.Admins, "boss", "s3cret-pass")
	adminToken := getToken(t, app.gate, adm)
	viewerToken := getToken(t, app.gate, adm, "viewer")

	goCourse, err := app.repos.Courses.CreateCourse(ctx, course.Course{Title: "Go", Description: "Concurrency"})
	require.NoError(t, err)
	sqlCourse, err := app.repos.Courses.CreateCourse(ctx, course.Course{Title: "SQL", Description: "Joins"})
	require.NoError(t, err)

	path := func(id int64) string { return "/api/courses/" + strconv.FormatInt(id, 10) }
	notFound := marchallObj(t, httpErr{Error: "Course not found"})
	goRenamed := course.Course{ID: goCourse.ID, Title: "Go 2", Description: "Concurrency"}

	runTests(t, app, []httpTest{
		{name: "list (public)", path: "/api/courses", wantData: marchallList(t, goCourse, sqlCourse)},
		{name: "list (trailing slash)", path: "/api/courses/", wantData: marchallList(t, goCourse, sqlCourse)},
		// auth
		{name: "create: no token", method: http.MethodPost, path: "/api/courses", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "create: bad token", method: http.MethodPost, path: "/api/courses", token: "lol", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "create: forbidden role", method: http.MethodPost, path: "/api/courses", token: viewerToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "update: no token", method: http.MethodPut, path: path(goCourse.ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "delete: no token", method: http.MethodDelete, path: path(goCourse.ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		// validation
		{
			name: "create: no title", method: http.MethodPost, path: "/api/courses", token: adminToken, body: []byte(`{"description": "d"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		},
		{
			name: "update: blank title", method: http.MethodPut, path: path(goCourse.ID), token: adminToken, body: []byte(`{"title": "  "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"title": "this field cannot be blank"}),
		},
		// update
		{
			name: "update: not found", method: http.MethodPut, path: path(sqlCourse.ID + 1000), token: adminToken,
			body: []byte(`{"title": "lol"}`), wantCode: http.StatusNotFound, wantData: notFound,
		},
		{
			name: "update: non-numeric id", method: http.MethodPut, path: "/api/courses/abc", token: adminToken,
			body: []byte(`{"title": "lol"}`), wantCode: http.StatusNotFound, wantData: notFound,
		},
		{
			name: "update: partial", method: http.MethodPut, path: path(goCourse.ID), token: adminToken, body: []byte(`{"title": "Go 2"}`),
			wantData: marchallObj(t, CourseResponse{Success: true, Course: goRenamed}),
		},
		{name: "list after update", path: "/api/courses", wantData: marchallList(t, goRenamed, sqlCourse)},
		// delete
		{name: "delete: not found", method: http.MethodDelete, path: path(sqlCourse.ID + 1000), token: adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "delete: non-numeric id", method: http.MethodDelete, path: "/api/courses/abc", token: adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "list unchanged", path: "/api/courses", wantData: marchallList(t, goRenamed, sqlCourse)},
		{
			name: "delete", method: http.MethodDelete, path: path(sqlCourse.ID), token: adminToken,
			wantData: marchallObj(t, SuccessResponse{Success: true, Message: "Course deleted successfully"}),
		},
		{name: "list after delete", path: "/api/courses", wantData: marchallList(t, goRenamed)},
	})

	t.Run("create", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/api/courses", token: adminToken,
			body: marchallObj(t, course.NewCourse{Title: " Rust ", Description: "Ownership"}),
		}
		rec := app.do(tt)
		checkCodeAndData(t, tt, rec)

		var resp CourseResponse
		decode(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.NotZero(t, resp.Course.ID)
		assert.Equal(t, "Rust", resp.Course.Title)
		assert.Equal(t, "Ownership", resp.Course.Description)

		courses, err := app.repos.Courses.QueryCourses(ctx)
		require.NoError(t, err)
		assert.Equal(t, []course.Course{goRenamed, resp.Course}, courses)
	})
}

func Test_courseApi_emptyList(t *testing.T) {
	app := setup(t)
	runTests(t, app, []httpTest{
		{name: "empty", path: "/api/courses", wantData: marchallList(t)},
	})
}
