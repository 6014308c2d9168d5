package admin_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/storage/database"
	"github.com/trezcool/coursedesk/tests"
)

func TestRole_Can(t *testing.T) {
	for _, c := range admin.AllCapabilities {
		assert.True(t, admin.RoleAdmin.Can(c), c)
		assert.False(t, admin.Role("viewer").Can(c), c)
	}
	assert.True(t, admin.RoleAdmin.Valid())
	assert.False(t, admin.Role("").Valid())
}

func TestAdmin_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want admin.Admin
	}{
		{
			name: "current format", data: `{"id": 1, "username": "boss", "passwordHash": "$2a$10$current"}`,
			want: admin.Admin{ID: 1, Username: "boss", PasswordHash: "$2a$10$current"},
		},
		{
			name: "legacy password field", data: `{"id": 1715000000000, "username": "admin", "password": "$2a$10$legacy"}`,
			want: admin.Admin{ID: 1715000000000, Username: "admin", PasswordHash: "$2a$10$legacy"},
		},
		{
			name: "both fields", data: `{"id": 2, "username": "boss", "passwordHash": "$2a$10$new", "password": "$2a$10$old"}`,
			want: admin.Admin{ID: 2, Username: "boss", PasswordHash: "$2a$10$new"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got admin.Admin
			require.NoError(t, json.Unmarshal([]byte(tt.data), &got))
			assert.Equal(t, tt.want, got)

			data, err := json.Marshal(got)
			require.NoError(t, err)
			assert.NotContains(t, string(data), `"password"`)
		})
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name  string
		pwd   string
		uname string
		want  string
	}{
		{name: "too short", pwd: "abc", want: "password must contain at least 8 characters"},
		{name: "whitespace", pwd: "abc defgh", want: "password must not contain whitespace"},
		{name: "numeric", pwd: "1234567890", want: "password cannot be entirely numeric"},
		{name: "similar to username", pwd: "superboss", uname: "superboss", want: "password cannot be similar to the username"},
		{name: "ok", pwd: "c0rrect-horse", uname: "boss"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, admin.CheckPassword(tt.pwd, tt.uname))
		})
	}
}

func TestNewAdmin_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name    string
		data    admin.NewAdmin
		wantErr map[string]string
	}{
		{
			name:    "empty",
			wantErr: map[string]string{"username": "this field is required", "password": "this field is required"},
		},
		{
			name:    "blank username",
			data:    admin.NewAdmin{Username: "   ", Password: "c0rrect-horse"},
			wantErr: map[string]string{"username": "this field is required"},
		},
		{
			name:    "weak password",
			data:    admin.NewAdmin{Username: "boss", Password: "12345678"},
			wantErr: map[string]string{"password": "password cannot be entirely numeric"},
		},
		{name: "valid", data: admin.NewAdmin{Username: " Boss ", Password: "c0rrect-horse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "boss", tt.data.Username)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "error = %v", err)
			got := make(map[string]string, len(vErrs))
			for _, vErr := range vErrs {
				got[vErr.Field()] = vErr.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}

func TestService(t *testing.T) {
	store, _ := testutil.NewStore(t)
	svc := admin.NewService(database.NewRepositories(store).Admins)
	ctx := context.Background()

	adm, err := svc.Create(ctx, admin.NewAdmin{Username: "Boss", Password: "c0rrect-horse"})
	require.NoError(t, err)
	assert.Equal(t, "boss", adm.Username)
	assert.NotEqual(t, "c0rrect-horse", adm.PasswordHash)
	assert.NoError(t, adm.CheckPassword("c0rrect-horse"))

	_, err = svc.Create(ctx, admin.NewAdmin{Username: "boss", Password: "an0ther-horse"})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []core.FieldError{{Field: "username", Error: admin.ErrUsernameExists.Error()}}, vErr.Fields)

	infos, err := svc.Query(ctx)
	require.NoError(t, err)
	assert.Equal(t, []admin.Info{{ID: adm.ID, Username: "boss"}}, infos)

	got, err := svc.GetByUsername(ctx, " BOSS ")
	require.NoError(t, err)
	assert.Equal(t, adm, got)

	updated, err := svc.SetPassword(ctx, "boss", "n3w-horse!")
	require.NoError(t, err)
	assert.NoError(t, updated.CheckPassword("n3w-horse!"))
	assert.Error(t, updated.CheckPassword("c0rrect-horse"))

	_, err = svc.SetPassword(ctx, "nobody", "n3w-horse!")
	assert.Equal(t, admin.ErrNotFound, errors.Cause(err))
}
