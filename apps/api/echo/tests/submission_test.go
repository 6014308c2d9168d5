package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/coursedesk/apps/api/echo"
	"github.com/trezcool/coursedesk/tests"
)

func Test_submissionApi(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, app.repos.Admins, "boss", "s3cret-pass")
	adminToken := getToken(t, app.gate, adm)
	received := marchallObj(t, SuccessResponse{Success: true, Message: "Submission received"})

	runTests(t, app, []httpTest{
		{name: "list: no token", path: "/api/submissions", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "list: empty", path: "/api/submissions", token: adminToken, wantData: marchallList(t)},
		{
			name: "create: missing score", method: http.MethodPost, path: "/api/submissions", body: []byte(`{"studentName": "Ada"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"score": "this field is required"}),
		},
		{
			name: "create: negative score", method: http.MethodPost, path: "/api/submissions", body: []byte(`{"studentName": "Ada", "score": -1}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "create (anonymous)", method: http.MethodPost, path: "/api/submissions",
			body: []byte(`{"studentName": "Ada", "score": 0}`), wantData: received,
		},
		{
			name: "create with date", method: http.MethodPost, path: "/api/submissions",
			body: []byte(`{"studentName": "Bob", "score": 9.5, "date": "2024-01-01T09:00:00+01:00"}`), wantData: received,
		},
	})

	subs, err := app.repos.Submissions.QuerySubmissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Ada", subs[0].StudentName)
	assert.Zero(t, subs[0].Score)
	assert.WithinDuration(t, time.Now(), subs[0].Date, time.Minute)
	assert.Equal(t, 9.5, subs[1].Score)
	assert.True(t, subs[1].Date.Equal(time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)))

	runTests(t, app, []httpTest{
		{name: "list", path: "/api/submissions", token: adminToken, wantData: marchallObj(t, subs)},
	})
}

func Test_storageBusy(t *testing.T) {
	app := setup(t)

	// another process holding the database lock
	other := flock.New(app.store.Path() + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = other.Unlock() }()

	runTests(t, app, []httpTest{
		{
			name: "create submission", method: http.MethodPost, path: "/api/submissions",
			body:     []byte(`{"studentName": "Ada", "score": 3}`),
			wantCode: http.StatusServiceUnavailable, wantData: marchallObj(t, httpErr{Error: "storage busy, retry later"}),
		},
	})
}

func Test_cancelledRequest(t *testing.T) {
	app := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, rec := newRequest(http.MethodPost, "/api/submissions", []byte(`{"studentName": "Ada", "score": 3}`))
	app.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error": "storage busy, retry later"}`, rec.Body.String())
	for _, msg := range app.logger.Messages() {
		assert.NotContains(t, msg, "ERROR")
	}

	subs, err := app.repos.Submissions.QuerySubmissions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}
