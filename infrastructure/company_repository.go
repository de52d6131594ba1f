package infrastructure

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobly/apperror"
	"jobly/domain"
	"jobly/sqlpatch"
)

const companyColumns = `handle, name, description, num_employees, logo_url`

var (
	companyUpdatable = map[string]bool{"name": true, "description": true, "numEmployees": true, "logoUrl": true}
	companyRenames   = map[string]string{"numEmployees": "num_employees", "logoUrl": "logo_url"}
)

// CompanyRepository implements domain.CompanyRepository on Postgres.
type CompanyRepository struct {
	db DBTX
}

var _ domain.CompanyRepository = (*CompanyRepository)(nil)

func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a company. A taken handle or name is a bad request.
func (r *CompanyRepository) Create(ctx context.Context, data domain.CompanyCreate) (*domain.Company, error) {
	var existing string
	err := r.db.QueryRow(ctx, `
		SELECT handle FROM companies
		WHERE handle = $1 OR name = $2
		ORDER BY handle = $1 DESC
		LIMIT 1`, data.Handle, data.Name,
	).Scan(&existing)
	if err == nil {
		if existing == data.Handle {
			return nil, apperror.BadRequest("Duplicate company: %s", data.Handle)
		}
		return nil, apperror.BadRequest("Duplicate company name: %s", data.Name)
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("jobly/postgres: check company: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO companies (handle, name, description, num_employees, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+companyColumns,
		data.Handle, data.Name, data.Description, data.NumEmployees, data.LogoURL,
	)
	c, err := scanCompany(row)
	if err != nil {
		// Lost a race with a concurrent insert.
		if isDuplicateKey(err) {
			return nil, duplicateCompany(err, data.Handle, data.Name)
		}
		return nil, fmt.Errorf("jobly/postgres: create company: %w", err)
	}
	return c, nil
}

// FindAll lists companies matching filter, ordered by name.
func (r *CompanyRepository) FindAll(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	where, args := companyWhere(filter)
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies`+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: list companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("jobly/postgres: scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobly/postgres: list companies: %w", err)
	}
	return companies, nil
}

// Get returns a company and its jobs.
func (r *CompanyRepository) Get(ctx context.Context, handle string) (*domain.CompanyDetail, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE handle = $1`, handle)
	c, err := scanCompany(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("No company: %s", handle)
		}
		return nil, fmt.Errorf("jobly/postgres: get company: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE company_handle = $1 ORDER BY id`, handle)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: company jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}

	return &domain.CompanyDetail{Company: *c, Jobs: jobs}, nil
}

// Update applies a partial update. Only name, description, numEmployees
// and logoUrl may be changed.
func (r *CompanyRepository) Update(ctx context.Context, handle string, fields []sqlpatch.Field) (*domain.Company, error) {
	if err := checkUpdatable(fields, companyUpdatable); err != nil {
		return nil, err
	}
	frag, err := sqlpatch.ForPartialUpdate(fields, companyRenames)
	if err != nil {
		return nil, err
	}

	query := `UPDATE companies SET ` + frag.SetCols +
		` WHERE handle = ` + frag.NextPlaceholder() +
		` RETURNING ` + companyColumns
	c, err := scanCompany(r.db.QueryRow(ctx, query, frag.Args(handle)...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("No company: %s", handle)
		}
		if isDuplicateKey(err) {
			return nil, apperror.BadRequest("Duplicate company name: %s", fieldValue(fields, "name"))
		}
		return nil, fmt.Errorf("jobly/postgres: update company: %w", err)
	}
	return c, nil
}

// Remove deletes a company; its jobs go with it.
func (r *CompanyRepository) Remove(ctx context.Context, handle string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE handle = $1`, handle)
	if err != nil {
		return fmt.Errorf("jobly/postgres: delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("No company: %s", handle)
	}
	return nil
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
		return nil, err
	}
	return &c, nil
}

// duplicateCompany names the column a unique violation hit. The primary
// key is the handle; the only other unique index is on name.
func duplicateCompany(err error, handle, name string) error {
	if constraintName(err) == "companies_pkey" {
		return apperror.BadRequest("Duplicate company: %s", handle)
	}
	return apperror.BadRequest("Duplicate company name: %s", name)
}

func fieldValue(fields []sqlpatch.Field, name string) any {
	for _, f := range fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// checkUpdatable rejects any field not in allowed.
func checkUpdatable(fields []sqlpatch.Field, allowed map[string]bool) error {
	for _, f := range fields {
		if !allowed[f.Name] {
			return apperror.BadRequest("Field cannot be updated: %s", f.Name)
		}
	}
	return nil
}
