package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Params carries the connection and pool settings for the booking
// database.  Pool sizing comes from config so a small clinic deployment
// and the hospital's load-tested production values use the same binary.
type Params struct {
	User            string
	Pass            string
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// dsn renders the MySQL connection string.  utf8mb4_unicode_ci matches
// the schema's table collation so name lookups (doctor resolution by
// first/last name) compare consistently; parseTime turns DATETIME
// columns into time.Time, and loc=UTC keeps dob and audit timestamps
// zone-stable.  appointment_date is unaffected: it is stored as a plain
// string and filtered by prefix.
func dsn(p Params) string {
	auth := p.User
	if p.Pass != "" {
		auth = fmt.Sprintf("%s:%s", p.User, p.Pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&collation=utf8mb4_unicode_ci&parseTime=true&loc=UTC",
		auth, p.Host, p.Port, p.Name)
}

// Open connects to MySQL, applies the pool settings and verifies the
// connection with a bounded ping before handing the pool to callers.
func Open(p Params) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(p))
	if err != nil {
		return nil, err
	}

	if p.MaxOpenConns > 0 {
		db.SetMaxOpenConns(p.MaxOpenConns)
	}
	if p.MaxIdleConns > 0 {
		db.SetMaxIdleConns(p.MaxIdleConns)
	}
	if p.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(p.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
