package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/coursedesk/apps/api/echo"
	"github.com/trezcool/coursedesk/core/contact"
	"github.com/trezcool/coursedesk/tests"
)

func Test_contactApi(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, app.repos.Admins, "boss", "s3cret-pass")
	adminToken := getToken(t, app.gate, adm)

	body := marchallObj(t, contact.NewMessage{Name: "Bob", Email: "bob@test.cd", Subject: "Pricing", Message: "How much?"})

	runTests(t, app, []httpTest{
		{name: "list: no token", path: "/api/contact-messages", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{
			name: "create: bad email", method: http.MethodPost, path: "/api/contact",
			body:     []byte(`{"name": "Bob", "email": "nope", "subject": "s", "message": "m"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "create (anonymous)", method: http.MethodPost, path: "/api/contact", body: body,
			wantData: marchallObj(t, SuccessResponse{Success: true, Message: "Message sent successfully!"}),
		},
	})

	tt := httpTest{path: "/api/contact-messages", token: adminToken}
	rec := app.do(tt)
	checkCodeAndData(t, tt, rec)

	var msgs []contact.Message
	decode(t, rec, &msgs)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Bob", msgs[0].Name)
	assert.Equal(t, "Pricing", msgs[0].Subject)
	assert.False(t, msgs[0].Date.IsZero())

	sent := app.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Contact: Pricing", sent[0].Subject)
	assert.Equal(t, "desk@coursedesk.test", sent[0].To[0].Address)
}
