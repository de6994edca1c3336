package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	// Foreign keys are off by default in SQLite and the pragma is
	// per-connection, so it rides the DSN to cover the whole pool.
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sqlx.Open("sqlite", dsn+sep+"_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the catalogue if the DB is empty
	if err := seedCatalogue(db); err != nil {
		return nil, err
	}
	// Ensure baseline users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Catalogue
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  label TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subcategories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  label TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_subcategories_category ON subcategories(category_id);

CREATE TABLE IF NOT EXISTS items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  label TEXT NOT NULL,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  subcategory_id INTEGER NOT NULL REFERENCES subcategories(id) ON DELETE RESTRICT,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  element TEXT NOT NULL DEFAULT '',
  reality_fragment TEXT NOT NULL DEFAULT '',
  rarity TEXT NOT NULL DEFAULT 'common' CHECK (rarity IN ('common','rare','legendary')),
  image_path TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_items_category    ON items(category_id);
CREATE INDEX IF NOT EXISTS idx_items_subcategory ON items(subcategory_id);
CREATE INDEX IF NOT EXISTS idx_items_rarity      ON items(rarity);
CREATE INDEX IF NOT EXISTS idx_items_created_at  ON items(created_at);

-- Users & roles
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_staff INTEGER NOT NULL DEFAULT 0,
  is_superuser INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

CREATE TABLE IF NOT EXISTS user_roles(
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  role TEXT NOT NULL CHECK (role IN ('Owner','Employee')),
  PRIMARY KEY (user_id, role)
);

-- Sessions: the 'sid' cookie value plus the session cart mapping
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  cart_json TEXT NOT NULL DEFAULT '{}',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Wishlist
CREATE TABLE IF NOT EXISTS wishlist_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, item_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'completed',
  total NUMERIC NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);

CREATE TABLE IF NOT EXISTS order_items(
  order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  item_id INTEGER NOT NULL REFERENCES items(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price_at_purchase NUMERIC NOT NULL,
  PRIMARY KEY (order_id, item_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedCatalogue(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/subcategories/items")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,label,slug) VALUES
	  (1,'Weapons','weapons'),
	  (2,'Relics','relics'),
	  (3,'Provisions','provisions')`)

	tx.MustExec(`INSERT INTO subcategories(id,category_id,label,slug) VALUES
	  (1,1,'Bows','bows'),
	  (2,1,'Blades','blades'),
	  (3,2,'Amulets','amulets'),
	  (4,3,'Elixirs','elixirs')`)

	tx.MustExec(`INSERT INTO items(label,category_id,subcategory_id,description,price,element,reality_fragment,rarity,image_path) VALUES
	  ('Emberwreath Longbow',1,1,'A bow strung with cooling embers.',149.50,'fire','Ash Veil','rare','images/items/emberwreath-longbow.png'),
	  ('Duskfall Sabre',1,2,'Cuts shadows as readily as flesh.',89.99,'shadow','Twilight Shard','common','images/items/duskfall-sabre.png'),
	  ('Amulet of the Still Tide',2,3,'Holds one breath of the frozen sea.',320.00,'water','Glass Meridian','legendary','images/items/still-tide-amulet.png'),
	  ('Wanderer''s Elixir',3,4,'Restores the will to keep walking.',12.75,'','Pale Road','common','images/items/wanderers-elixir.png')`)

	return tx.Commit()
}

// seedUsers ensures a superuser, an Owner, an Employee and a plain
// customer exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID           int64
		Username     string
		Email        string
		Staff, Super bool
		Role, Raw    string
	}
	users := []u{
		{ID: 1, Username: "admin", Email: "admin@mirage.test", Staff: true, Super: true, Raw: "Passw0rd!"},
		{ID: 2, Username: "morgana", Email: "morgana@mirage.test", Staff: true, Role: "Owner", Raw: "Passw0rd!"},
		{ID: 3, Username: "caspian", Email: "caspian@mirage.test", Staff: true, Role: "Employee", Raw: "Passw0rd!"},
		{ID: 4, Username: "wren", Email: "wren@mirage.test", Raw: "Passw0rd!"},
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		h, _ := bcrypt.GenerateFromPassword([]byte(x.Raw), 12)
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,email,password_hash,is_staff,is_superuser)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Email, string(h), x.Staff, x.Super); err != nil {
			return err
		}
		if x.Role != "" {
			if _, err := tx.Exec(`
				INSERT INTO user_roles(user_id,role) VALUES(?,?)
				ON CONFLICT(user_id,role) DO NOTHING
			`, x.ID, x.Role); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
