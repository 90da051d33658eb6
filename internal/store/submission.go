package store

import (
	"context"
	"database/sql"

	"github.com/folioworks/portfolio/types"
)

// ContactRepository handles persistence for contact messages.
type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = types.Now()
	}
	const query = `
		INSERT INTO contact_messages (name, email, subject, message, created_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.conn(ctx).QueryRowContext(ctx, query,
		msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt, msg.IsRead,
	).Scan(&msg.ID); err != nil {
		return types.ContactMessage{}, mapError(err)
	}
	return msg, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id int) (types.ContactMessage, error) {
	const query = `
		SELECT id, name, email, subject, message, created_at, is_read
		FROM contact_messages
		WHERE id = $1`
	msg, err := scanContact(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return types.ContactMessage{}, mapError(err)
	}
	return msg, nil
}

// List returns every message, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]types.ContactMessage, error) {
	const query = `
		SELECT id, name, email, subject, message, created_at, is_read
		FROM contact_messages
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []types.ContactMessage{}
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *ContactRepository) MarkRead(ctx context.Context, id int) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *ContactRepository) Count(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM contact_messages`)
}

func (r *ContactRepository) CountUnread(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE`)
}

func scanContact(row rowScanner) (types.ContactMessage, error) {
	var msg types.ContactMessage
	if err := row.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.CreatedAt, &msg.IsRead); err != nil {
		return types.ContactMessage{}, err
	}
	msg.CreatedAt = msg.CreatedAt.In(types.IST)
	return msg, nil
}

// FeedbackRepository handles persistence for visitor feedback.
type FeedbackRepository struct {
	db *DB
}

func NewFeedbackRepository(db *DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb types.Feedback) (types.Feedback, error) {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = types.Now()
	}
	const query = `
		INSERT INTO feedback (name, role, company, message, rating, created_at, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.conn(ctx).QueryRowContext(ctx, query,
		fb.Name, fb.Role, nullString(fb.Company), fb.Message, fb.Rating, fb.CreatedAt, fb.IsApproved,
	).Scan(&fb.ID); err != nil {
		return types.Feedback{}, mapError(err)
	}
	return fb, nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int) (types.Feedback, error) {
	const query = `
		SELECT id, name, role, company, message, rating, created_at, is_approved
		FROM feedback
		WHERE id = $1`
	fb, err := scanFeedback(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return types.Feedback{}, mapError(err)
	}
	return fb, nil
}

// List returns every entry, newest first.
func (r *FeedbackRepository) List(ctx context.Context) ([]types.Feedback, error) {
	return r.list(ctx, `
		SELECT id, name, role, company, message, rating, created_at, is_approved
		FROM feedback
		ORDER BY created_at DESC, id DESC`)
}

// ListApproved returns at most limit approved entries, newest first.
func (r *FeedbackRepository) ListApproved(ctx context.Context, limit int) ([]types.Feedback, error) {
	return r.list(ctx, `
		SELECT id, name, role, company, message, rating, created_at, is_approved
		FROM feedback
		WHERE is_approved = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
}

func (r *FeedbackRepository) SetApproved(ctx context.Context, id int, approved bool) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `UPDATE feedback SET is_approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *FeedbackRepository) Count(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM feedback`)
}

func (r *FeedbackRepository) CountPending(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM feedback WHERE is_approved = FALSE`)
}

func (r *FeedbackRepository) list(ctx context.Context, query string, args ...any) ([]types.Feedback, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []types.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fb)
	}
	return entries, rows.Err()
}

func scanFeedback(row rowScanner) (types.Feedback, error) {
	var (
		fb      types.Feedback
		company sql.NullString
	)
	if err := row.Scan(&fb.ID, &fb.Name, &fb.Role, &company, &fb.Message, &fb.Rating, &fb.CreatedAt, &fb.IsApproved); err != nil {
		return types.Feedback{}, err
	}
	fb.Company = company.String
	fb.CreatedAt = fb.CreatedAt.In(types.IST)
	return fb, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
