package domain

import (
	"context"

	"jobly/sqlpatch"
)

// CompanyRepository is the store of record for companies. Update accepts
// only name, description, numEmployees and logoUrl.
type CompanyRepository interface {
	Create(ctx context.Context, data CompanyCreate) (*Company, error)
	FindAll(ctx context.Context, filter CompanyFilter) ([]Company, error)
	Get(ctx context.Context, handle string) (*CompanyDetail, error)
	Update(ctx context.Context, handle string, fields []sqlpatch.Field) (*Company, error)
	Remove(ctx context.Context, handle string) error
}

// JobRepository is the store of record for jobs. Update accepts only
// title, salary and equity.
type JobRepository interface {
	Create(ctx context.Context, data JobCreate) (*Job, error)
	FindAll(ctx context.Context, filter JobFilter) ([]Job, error)
	Get(ctx context.Context, id int) (*Job, error)
	Update(ctx context.Context, id int, fields []sqlpatch.Field) (*Job, error)
	Remove(ctx context.Context, id int) error
}

type UserRepository interface {
	Register(ctx context.Context, data UserRegister) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Get(ctx context.Context, username string) (*UserDetail, error)
	Update(ctx context.Context, username string, fields []sqlpatch.Field) (*User, error)
	Remove(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int) error
}

type ApplicationNotifier interface {
	PublishApplication(ctx context.Context, event ApplicationEvent) error
}

type TokenIssuer interface {
	Sign(user User) (string, error)
	Verify(token string) (*Claims, error)
}
