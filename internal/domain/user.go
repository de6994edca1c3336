package domain

const (
	RoleOwner    = "Owner"
	RoleEmployee = "Employee"
)

type User struct {
	ID          int64  `db:"id"`
	Username    string `db:"username"`
	Email       string `db:"email"`
	Hash        string `db:"password_hash"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	IsActive    bool   `db:"is_active"`
	IsStaff     bool   `db:"is_staff"`
	IsSuperuser bool   `db:"is_superuser"`
	Roles       []string
}

// HasAnyRole reports whether the user carries at least one of the named
// roles. Superuser status is decided separately by the access gate.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if want == have {
				return true
			}
		}
	}
	return false
}
