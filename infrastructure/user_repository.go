package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"jobly/apperror"
	"jobly/domain"
	"jobly/sqlpatch"
)

const userColumns = `username, first_name, last_name, email, is_admin`

var (
	userUpdatable = map[string]bool{"firstName": true, "lastName": true, "email": true, "password": true, "isAdmin": true}
	userRenames   = map[string]string{"firstName": "first_name", "lastName": "last_name", "isAdmin": "is_admin"}
)

// UserRepository stores users and their job applications. Passwords are
// kept as bcrypt hashes.
type UserRepository struct {
	db         DBTX
	bcryptCost int
}

var _ domain.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db DBTX, bcryptCost int) *UserRepository {
	return &UserRepository{db: db, bcryptCost: bcryptCost}
}

func (r *UserRepository) Register(ctx context.Context, data domain.UserRegister) (*domain.User, error) {
	var existing string
	err := r.db.QueryRow(ctx, `SELECT username FROM users WHERE username = $1`, data.Username).Scan(&existing)
	if err == nil {
		return nil, apperror.BadRequest("Duplicate username: %s", data.Username)
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("jobly/postgres: check user: %w", err)
	}

	hash, err := r.hash(data.Password)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		data.Username, hash, data.FirstName, data.LastName, data.Email, data.IsAdmin,
	)
	u, err := scanUser(row)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, apperror.BadRequest("Duplicate username: %s", data.Username)
		}
		return nil, fmt.Errorf("jobly/postgres: register user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user when password matches. Unknown users and
// wrong passwords produce the same error.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var (
		u    domain.User
		hash string
	)
	err := r.db.QueryRow(ctx, `
		SELECT username, password, first_name, last_name, email, is_admin
		FROM users WHERE username = $1`, username,
	).Scan(&u.Username, &hash, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.Unauthorized("Invalid username/password")
		}
		return nil, fmt.Errorf("jobly/postgres: authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apperror.Unauthorized("Invalid username/password")
	}
	return &u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("jobly/postgres: scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobly/postgres: list users: %w", err)
	}
	return users, nil
}

// Get returns the user with the ids of jobs applied to.
func (r *UserRepository) Get(ctx context.Context, username string) (*domain.UserDetail, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("No user: %s", username)
		}
		return nil, fmt.Errorf("jobly/postgres: get user: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`, username)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: user applications: %w", err)
	}
	jobIDs, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: user applications: %w", err)
	}

	return &domain.UserDetail{User: *u, Jobs: jobIDs}, nil
}

// Update applies a partial update. A new password is hashed before it is
// stored.
func (r *UserRepository) Update(ctx context.Context, username string, fields []sqlpatch.Field) (*domain.User, error) {
	if err := checkUpdatable(fields, userUpdatable); err != nil {
		return nil, err
	}

	patched := make([]sqlpatch.Field, len(fields))
	copy(patched, fields)
	for i, f := range patched {
		if f.Name != "password" {
			continue
		}
		pw, ok := f.Value.(string)
		if !ok {
			return nil, apperror.BadRequest("password must be a string")
		}
		hash, err := r.hash(pw)
		if err != nil {
			return nil, err
		}
		patched[i].Value = hash
	}

	frag, err := sqlpatch.ForPartialUpdate(patched, userRenames)
	if err != nil {
		return nil, err
	}

	query := `UPDATE users SET ` + frag.SetCols +
		` WHERE username = ` + frag.NextPlaceholder() +
		` RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, frag.Args(username)...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("No user: %s", username)
		}
		return nil, fmt.Errorf("jobly/postgres: update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Remove(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("jobly/postgres: delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("No user: %s", username)
	}
	return nil
}

// ApplyToJob records that username applied to jobID.
func (r *UserRepository) ApplyToJob(ctx context.Context, username string, jobID int) error {
	var id int
	if err := r.db.QueryRow(ctx, `SELECT id FROM jobs WHERE id = $1`, jobID).Scan(&id); err != nil {
		if isNoRows(err) {
			return apperror.NotFound("No job: %d", jobID)
		}
		return fmt.Errorf("jobly/postgres: check job: %w", err)
	}

	var name string
	if err := r.db.QueryRow(ctx, `SELECT username FROM users WHERE username = $1`, username).Scan(&name); err != nil {
		if isNoRows(err) {
			return apperror.NotFound("No user: %s", username)
		}
		return fmt.Errorf("jobly/postgres: check user: %w", err)
	}

	_, err := r.db.Exec(ctx, `INSERT INTO applications (job_id, username) VALUES ($1, $2)`, jobID, username)
	if err != nil {
		if isDuplicateKey(err) {
			return apperror.BadRequest("Already applied to job: %d", jobID)
		}
		// Job or user deleted between the checks and the insert.
		if isForeignKeyViolation(err) {
			return apperror.NotFound("No job: %d", jobID)
		}
		return fmt.Errorf("jobly/postgres: apply to job: %w", err)
	}
	return nil
}

func (r *UserRepository) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.BadRequest("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("jobly: hash password: %w", err)
	}
	return string(b), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}
