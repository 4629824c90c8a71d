package database

import (
	"database/sql"
)

type PgChatroomsRepository struct {
	conn *sql.DB
}

func NewPgChatroomsRepository(dsn string) (*PgChatroomsRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgChatroomsRepository{conn: db}, nil
}

func (db *PgChatroomsRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgChatroomsRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
