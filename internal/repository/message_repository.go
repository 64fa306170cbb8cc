package repository

import (
	"context"
	"database/sql"

	"github.com/satyahealth/hospital-booking/internal/model"
)

// MessageRepo persists contact-form submissions.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a message and returns its ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (first_name, last_name, email, phone, message) VALUES (?,?,?,?,?)",
		m.FirstName, m.LastName, m.Email, m.Phone, m.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListAll returns every message, newest first.
func (r *MessageRepo) ListAll(ctx context.Context) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, first_name, last_name, email, phone, message, created_at FROM messages ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
