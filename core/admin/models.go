package admin

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/coursedesk/core"
)

// Role names a set of capabilities carried by a credential.
type Role string

// Capability is a single permission checked on mutating or private endpoints.
type Capability string

// Roles
const (
	RoleAdmin Role = "admin"
)

// Capabilities
const (
	CapWriteCourses    Capability = "courses:write"
	CapWriteMCQs       Capability = "mcqs:write"
	CapReadAdmins      Capability = "admins:read"
	CapWriteAdmins     Capability = "admins:write"
	CapReadSubmissions Capability = "submissions:read"
	CapReadMessages    Capability = "messages:read"
)

var (
	AllCapabilities = []Capability{
		CapWriteCourses, CapWriteMCQs, CapReadAdmins, CapWriteAdmins, CapReadSubmissions, CapReadMessages,
	}

	roleCapabilities = map[Role]map[Capability]bool{
		RoleAdmin: capabilitySet(AllCapabilities...),
	}

	passwordCost = bcrypt.DefaultCost
)

func capabilitySet(caps ...Capability) map[Capability]bool {
	set := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

type Admin struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// UnmarshalJSON also reads records keeping the hash under "password"; they are written back as "passwordHash".
func (a *Admin) UnmarshalJSON(data []byte) error {
	type plain Admin
	var rec struct {
		plain
		Password string `json:"password"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*a = Admin(rec.plain)
	if a.PasswordHash == "" {
		a.PasswordHash = rec.Password
	}
	return nil
}

// Info is the public representation of an Admin; the password hash never leaves the store.
type Info struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (a Admin) Info() Info {
	return Info{ID: a.ID, Username: a.Username}
}

// Role returns the role granted to the admin. Every stored admin is a full administrator.
func (a Admin) Role() Role {
	return RoleAdmin
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(pwd))
}

// NewAdmin contains information needed to create a new Admin.
type NewAdmin struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=64"`
	Password string `json:"password" validate:"required"`
}

func (na *NewAdmin) Validate(validate *validator.Validate) error {
	na.Username = core.CleanString(na.Username, true /* lower */)
	return validate.Struct(na)
}
