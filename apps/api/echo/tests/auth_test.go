package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/coursedesk/apps/api/echo"
	"github.com/trezcool/coursedesk/tests"
)

func tokenCookie(rec interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == TokenCookieName {
			return c
		}
	}
	return nil
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateAdmin(t, app.repos.Admins, "boss", "s3cret-pass")

	invalidCreds := marchallObj(t, httpErr{Error: "invalid admin credentials"})
	tests := []httpTest{
		{
			name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{name: "malformed body", body: []byte(`{"username":`), wantCode: http.StatusBadRequest},
		{
			name: "unknown user", body: marchallObj(t, LoginRequest{Username: "nobody", Password: "s3cret-pass"}),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Username: "boss", Password: "wrong-pass"}),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "success", body: marchallObj(t, LoginRequest{Username: "Boss", Password: "s3cret-pass"}),
			wantData: marchallObj(t, SuccessResponse{Success: true, Message: "Admin login successful"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/admin/login"

		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			cookie := tokenCookie(rec)
			if tt.name != "success" {
				assert.Nil(t, cookie)
				return
			}
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			assert.Equal(t, 3600, cookie.MaxAge)

			claims, err := app.gate.Verify(cookie.Value)
			require.NoError(t, err)
			assert.Equal(t, "boss", claims.Username)
		})
	}
}

func Test_authApi_checkAndLogout(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, app.repos.Admins, "boss", "s3cret-pass")
	token := getToken(t, app.gate, adm)

	runTests(t, app, []httpTest{
		{name: "anonymous", path: "/api/auth-check", wantData: []byte(`{"isAuthenticated": false}`)},
		{name: "invalid token", path: "/api/auth-check", token: "lol", wantData: []byte(`{"isAuthenticated": false}`)},
		{name: "authenticated", path: "/api/auth-check", token: token, wantData: []byte(`{"isAuthenticated": true, "role": "admin"}`)},
	})

	tt := httpTest{
		method: http.MethodPost, path: "/api/logout", token: token,
		wantData: marchallObj(t, SuccessResponse{Success: true, Message: "Logout successful"}),
	}
	rec := app.do(tt)
	checkCodeAndData(t, tt, rec)
	cookie := tokenCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}
