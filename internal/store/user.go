package store

import (
	"context"

	"github.com/folioworks/portfolio/types"
)

const userColumns = `
		id, username, email, password_hash, first_name, last_name, bio, location, website,
		github_username, linkedin_username, twitter_username, created_at, is_active, is_admin`

type rowScanner interface {
	Scan(dest ...any) error
}

// UserRepository handles persistence for users.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername looks up a user by the stored (lowercase) username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail looks up a user by the stored (lowercase) email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = types.Now()
	}

	const query = `
		INSERT INTO users (
			username, email, password_hash, first_name, last_name, bio, location, website,
			github_username, linkedin_username, twitter_username, created_at, is_active, is_admin
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	if err := r.db.conn(ctx).QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Location,
		user.Website,
		user.GitHubUsername,
		user.LinkedInUsername,
		user.TwitterUsername,
		user.CreatedAt,
		user.IsActive,
		user.IsAdmin,
	).Scan(&user.ID); err != nil {
		return types.User{}, mapError(err)
	}
	return user, nil
}

// Update writes the profile fields and the moderation flags. Email, password
// hash and creation time are never changed here.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		UPDATE users
		SET username = $1,
			first_name = $2,
			last_name = $3,
			bio = $4,
			location = $5,
			website = $6,
			github_username = $7,
			linkedin_username = $8,
			twitter_username = $9,
			is_active = $10,
			is_admin = $11
		WHERE id = $12`
	result, err := r.db.conn(ctx).ExecContext(
		ctx,
		query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Location,
		user.Website,
		user.GitHubUsername,
		user.LinkedInUsername,
		user.TwitterUsername,
		user.IsActive,
		user.IsAdmin,
		user.ID,
	)
	if err != nil {
		return types.User{}, mapError(err)
	}
	if err := expectAffected(result); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// List returns every user, most recently created first.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	return r.list(ctx, `SELECT`+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
}

// ListRecent returns at most limit users, most recently created first.
func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]types.User, error) {
	return r.list(ctx, `SELECT`+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.db.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (types.User, error) {
	user, err := scanUser(r.db.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return types.User{}, mapError(err)
	}
	return user, nil
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]types.User, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Location,
		&user.Website,
		&user.GitHubUsername,
		&user.LinkedInUsername,
		&user.TwitterUsername,
		&user.CreatedAt,
		&user.IsActive,
		&user.IsAdmin,
	)
	if err != nil {
		return types.User{}, err
	}
	user.CreatedAt = user.CreatedAt.In(types.IST)
	return user, nil
}
