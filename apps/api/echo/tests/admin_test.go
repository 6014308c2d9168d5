package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/coursedesk/apps/api/echo"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/tests"
)

func Test_adminApi(t *testing.T) {
	app := setup(t)
	boss := testutil.CreateAdmin(t, app.repos.Admins, "boss", "s3cret-pass")
	adminToken := getToken(t, app.gate, boss)
	viewerToken := getToken(t, app.gate, boss, "viewer")

	runTests(t, app, []httpTest{
		{name: "list: no token", path: "/api/admins", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "list: forbidden role", path: "/api/admins", token: viewerToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "list", path: "/api/admins", token: adminToken, wantData: []byte(`[{"id": ` + itoa(boss.ID) + `, "username": "boss"}]`)},
		{name: "create: no token", method: http.MethodPost, path: "/api/admins", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{
			name: "create: weak password", method: http.MethodPost, path: "/api/admins", token: adminToken,
			body:     marchallObj(t, admin.NewAdmin{Username: "second", Password: "123"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "create: username taken", method: http.MethodPost, path: "/api/admins", token: adminToken,
			body:     marchallObj(t, admin.NewAdmin{Username: "BOSS", Password: "an0ther-pass"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"username": admin.ErrUsernameExists.Error()}),
		},
	})

	t.Run("create", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/api/admins", token: adminToken,
			body: marchallObj(t, admin.NewAdmin{Username: "second", Password: "an0ther-pass"}),
		}
		rec := app.do(tt)
		checkCodeAndData(t, tt, rec)
		assert.NotContains(t, rec.Body.String(), "password")

		var resp AdminResponse
		decode(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "second", resp.Admin.Username)

		// the new admin can log in
		_, _, err := app.gate.Login(context.Background(), "second", "an0ther-pass")
		require.NoError(t, err)
	})
}
