package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

const defaultDBName = "board"

var seq atomic.Uint64

type Config struct {
	// Name selects the shared in-memory database. Empty picks a unique name.
	Name string
}

func dsn(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}

// Open opens an in-memory SQLite database. Its contents live only as long as the
// returned handle keeps a connection open.
func Open(cfg Config) (*sql.DB, error) {
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("%s-%d", defaultDBName, seq.Add(1))
	}
	conn, err := sql.Open("sqlite", dsn(name))
	if err != nil {
		return nil, err
	}
	// A memory database disappears with its last connection.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxIdleTime(0)
	conn.SetConnMaxLifetime(0)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	return conn, nil
}
