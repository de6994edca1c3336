package repos

import (
	"database/sql"
	"encoding/json"
	"errors"

	"mirage/internal/domain"

	"github.com/jmoiron/sqlx"
)

// SessionRepo backs the 'sid' cookie: user binding plus the session cart,
// a JSON object of item id -> quantity persisted on every mutation.
type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Ensure(sid string) error {
	_, err := r.db.Exec(`
	  INSERT INTO sessions(id, last_seen) VALUES(?, CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET last_seen = CURRENT_TIMESTAMP
	`, sid)
	return err
}

func (r *SessionRepo) Bind(sid string, userID int64) error {
	_, err := r.db.Exec(`
	  INSERT INTO sessions(id, user_id, last_seen) VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, last_seen = CURRENT_TIMESTAMP
	`, sid, userID)
	return err
}

func (r *SessionRepo) Unbind(sid string) error {
	_, err := r.db.Exec(`UPDATE sessions SET user_id = NULL, last_seen = CURRENT_TIMESTAMP WHERE id = ?`, sid)
	return err
}

func (r *SessionRepo) User(sid string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
	  SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
	         u.is_active, u.is_staff, u.is_superuser
	  FROM sessions s
	  JOIN users u ON u.id = s.user_id
	  WHERE s.id = ? AND u.is_active = 1
	`, sid)
	if err != nil {
		return nil, err
	}
	if err := r.db.Select(&u.Roles, `SELECT role FROM user_roles WHERE user_id = ?`, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

// Cart loads the session's quantity mapping. A session that does not
// exist yet reads as an empty cart.
func (r *SessionRepo) Cart(sid string) (map[string]int, error) {
	var raw string
	err := r.db.Get(&raw, `SELECT cart_json FROM sessions WHERE id = ?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	cart := map[string]int{}
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// A corrupt blob should not take the cart page down
		return map[string]int{}, nil
	}
	return cart, nil
}

// SaveCart persists the mapping; this is the explicit "session dirty"
// step, nothing is stored until it runs.
func (r *SessionRepo) SaveCart(sid string, cart map[string]int) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO sessions(id, cart_json, last_seen) VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET cart_json = excluded.cart_json, last_seen = CURRENT_TIMESTAMP
	`, sid, string(b))
	return err
}
