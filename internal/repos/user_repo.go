package repos

import (
	"github.com/jmoiron/sqlx"

	"mirage/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, email, password_hash, first_name, last_name, is_active, is_staff, is_superuser`

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(username) = LOWER(?)`, username)
	if err != nil {
		return nil, err
	}
	return r.withRoles(&u)
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return r.withRoles(&u)
}

func (r *UserRepo) withRoles(u *domain.User) (*domain.User, error) {
	if err := r.DB.Select(&u.Roles, `SELECT role FROM user_roles WHERE user_id = ?`, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) Create(username, email, hash string) (int64, error) {
	res, err := r.DB.Exec(`
	  INSERT INTO users(username, email, password_hash) VALUES(?, ?, ?)
	`, username, email, hash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateProfile covers the fields a user may edit about themselves.
func (r *UserRepo) UpdateProfile(id int64, email, firstName, lastName string) error {
	_, err := r.DB.Exec(`
	  UPDATE users SET email = ?, first_name = ?, last_name = ? WHERE id = ?
	`, email, firstName, lastName, id)
	return err
}

// UpdateAccount covers the management-surface edit: identity fields plus
// the active/staff flags and the role set.
func (r *UserRepo) UpdateAccount(u domain.User) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?,
	    is_active = ?, is_staff = ?
	  WHERE id = ?
	`, u.Username, u.Email, u.FirstName, u.LastName, u.IsActive, u.IsStaff, u.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM user_roles WHERE user_id = ?`, u.ID); err != nil {
		return err
	}
	for _, role := range u.Roles {
		if _, err := tx.Exec(`INSERT INTO user_roles(user_id, role) VALUES(?, ?)`, u.ID, role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *UserRepo) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	return err
}

type UserRow struct {
	ID          int64  `db:"id"`
	Username    string `db:"username"`
	Email       string `db:"email"`
	IsActive    bool   `db:"is_active"`
	IsStaff     bool   `db:"is_staff"`
	IsSuperuser bool   `db:"is_superuser"`
	Roles       string `db:"roles"`
}

func (r *UserRepo) List() ([]UserRow, error) {
	var out []UserRow
	err := r.DB.Select(&out, `
	  SELECT u.id, u.username, u.email, u.is_active, u.is_staff, u.is_superuser,
	         COALESCE(GROUP_CONCAT(ur.role, ', '), '') AS roles
	  FROM users u
	  LEFT JOIN user_roles ur ON ur.user_id = u.id
	  GROUP BY u.id
	  ORDER BY u.username
	`)
	return out, err
}
