package infrastructure

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobly/apperror"
	"jobly/domain"
	"jobly/sqlpatch"
)

const jobColumns = `id, title, salary, equity, company_handle`

var (
	jobUpdatable = map[string]bool{"title": true, "salary": true, "equity": true}
	jobRenames   = map[string]string{"companyHandle": "company_handle"}
)

type JobRepository struct {
	db DBTX
}

var _ domain.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a job. Titles are unique across the board, and the
// company must exist.
func (r *JobRepository) Create(ctx context.Context, data domain.JobCreate) (*domain.Job, error) {
	var existing int
	err := r.db.QueryRow(ctx, `SELECT id FROM jobs WHERE title = $1`, data.Title).Scan(&existing)
	if err == nil {
		return nil, apperror.BadRequest("Duplicate job: %s", data.Title)
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("jobly/postgres: check job: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobColumns,
		data.Title, data.Salary, data.Equity, data.CompanyHandle,
	)
	j, err := scanJob(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperror.BadRequest("Unknown company: %s", data.CompanyHandle)
		}
		return nil, fmt.Errorf("jobly/postgres: create job: %w", err)
	}
	return j, nil
}

// FindAll lists jobs matching filter, ordered by title.
func (r *JobRepository) FindAll(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	where, args := jobWhere(filter)
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs`+where+` ORDER BY title`, args...)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: list jobs: %w", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) Get(ctx context.Context, id int) (*domain.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("No job: %d", id)
		}
		return nil, fmt.Errorf("jobly/postgres: get job: %w", err)
	}
	return j, nil
}

// Update applies a partial update to title, salary and equity.
func (r *JobRepository) Update(ctx context.Context, id int, fields []sqlpatch.Field) (*domain.Job, error) {
	if err := checkUpdatable(fields, jobUpdatable); err != nil {
		return nil, err
	}
	frag, err := sqlpatch.ForPartialUpdate(fields, jobRenames)
	if err != nil {
		return nil, err
	}

	query := `UPDATE jobs SET ` + frag.SetCols +
		` WHERE id = ` + frag.NextPlaceholder() +
		` RETURNING ` + jobColumns
	j, err := scanJob(r.db.QueryRow(ctx, query, frag.Args(id)...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("No job: %d", id)
		}
		return nil, fmt.Errorf("jobly/postgres: update job: %w", err)
	}
	return j, nil
}

func (r *JobRepository) Remove(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("jobly/postgres: delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("No job: %d", id)
	}
	return nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return &j, nil
}

// collectJobs drains and closes rows.
func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("jobly/postgres: scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobly/postgres: list jobs: %w", err)
	}
	return jobs, nil
}
