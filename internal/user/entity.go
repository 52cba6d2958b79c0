package user

import (
	"slices"
	"strings"
)

type Role string

const (
	RoleProjectManager Role = "ProjectManager"
	RoleDeveloper      Role = "Developer"
	RoleQA             Role = "QA"
)

var Roles = []Role{RoleDeveloper, RoleProjectManager, RoleQA}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// Home is the console path a signed-in user of this role lands on.
func (r Role) Home() string {
	switch r {
	case RoleProjectManager:
		return "/pm"
	case RoleQA:
		return "/qa"
	case RoleDeveloper:
		return "/dev"
	}
	return "/"
}

func (r Role) Label() string {
	switch r {
	case RoleProjectManager:
		return "Project Manager"
	case RoleDeveloper:
		return "Developer"
	case RoleQA:
		return "QA"
	}
	return string(r)
}

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// DisplayName falls back to the username for accounts registered without a
// first name.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Username
}

// Names joins display names for table cells, "—" for nobody.
func Names(users []User) string {
	if len(users) == 0 {
		return "—"
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.DisplayName())
	}
	return strings.Join(names, ", ")
}

func IDs(users []User) []int {
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

// Member is one row of the team page.
type Member struct {
	User
	RoleLabel string `json:"role_label"`
}

// Team lists developers first, then QAs. The list endpoints don't always fill
// in role, so the label comes from which list the user arrived in.
func Team(developers, qas []User) []Member {
	members := make([]Member, 0, len(developers)+len(qas))
	for _, u := range developers {
		members = append(members, Member{User: u, RoleLabel: RoleDeveloper.Label()})
	}
	for _, u := range qas {
		members = append(members, Member{User: u, RoleLabel: RoleQA.Label()})
	}
	return members
}

// Registration is the body of POST /users/register/.
type Registration struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

const MinPasswordLength = 8

// Validate mirrors the checks the API would reject so the form can fail
// without a round trip. It returns the first problem as a user-facing string.
func (r Registration) Validate() string {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return "Username is required"
	case !strings.Contains(r.Email, "@"):
		return "A valid email is required"
	case len(r.Password) < MinPasswordLength:
		return "Password must be at least 8 characters"
	case !r.Role.Valid():
		return "Choose a role"
	}
	return ""
}
