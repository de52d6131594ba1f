package interfaces

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"jobly/apperror"
	"jobly/domain"
	"jobly/sqlpatch"
)

// In-memory repositories with the same error behavior as the Postgres ones.

func checkFields(fields []sqlpatch.Field, allowed ...string) error {
	for _, f := range fields {
		ok := false
		for _, a := range allowed {
			ok = ok || a == f.Name
		}
		if !ok {
			return apperror.BadRequest("Field cannot be updated: %s", f.Name)
		}
	}
	if len(fields) == 0 {
		return apperror.BadRequest("No data")
	}
	return nil
}

type fakeCompanies struct {
	mu   sync.Mutex
	rows map[string]domain.Company
	jobs *fakeJobs
}

func (f *fakeCompanies) Create(_ context.Context, data domain.CompanyCreate) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[data.Handle]; ok {
		return nil, apperror.BadRequest("Duplicate company: %s", data.Handle)
	}
	for _, c := range f.rows {
		if c.Name == data.Name {
			return nil, apperror.BadRequest("Duplicate company name: %s", data.Name)
		}
	}
	c := domain.Company{Handle: data.Handle, Name: data.Name, Description: data.Description, NumEmployees: data.NumEmployees, LogoURL: data.LogoURL}
	f.rows[c.Handle] = c
	return &c, nil
}

func (f *fakeCompanies) FindAll(_ context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Company{}
	for _, c := range f.rows {
		if filter.Name != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*filter.Name)) {
			continue
		}
		n := -1
		if c.NumEmployees != nil {
			n = *c.NumEmployees
		}
		if filter.MinEmployees != nil && n < *filter.MinEmployees {
			continue
		}
		if filter.MaxEmployees != nil && (n < 0 || n > *filter.MaxEmployees) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCompanies) Get(ctx context.Context, handle string) (*domain.CompanyDetail, error) {
	f.mu.Lock()
	c, ok := f.rows[handle]
	f.mu.Unlock()
	if !ok {
		return nil, apperror.NotFound("No company: %s", handle)
	}

	jobs, _ := f.jobs.FindAll(ctx, domain.JobFilter{})
	detail := &domain.CompanyDetail{Company: c, Jobs: []domain.Job{}}
	for _, j := range jobs {
		if j.CompanyHandle == handle {
			detail.Jobs = append(detail.Jobs, j)
		}
	}
	return detail, nil
}

func (f *fakeCompanies) Update(_ context.Context, handle string, fields []sqlpatch.Field) (*domain.Company, error) {
	if err := checkFields(fields, "name", "description", "numEmployees", "logoUrl"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[handle]
	if !ok {
		return nil, apperror.NotFound("No company: %s", handle)
	}
	for _, fl := range fields {
		switch fl.Name {
		case "name":
			c.Name = fl.Value.(string)
		case "description":
			c.Description = fl.Value.(string)
		case "numEmployees":
			n := fl.Value.(int)
			c.NumEmployees = &n
		case "logoUrl":
			s := fl.Value.(string)
			c.LogoURL = &s
		}
	}
	f.rows[handle] = c
	return &c, nil
}

func (f *fakeCompanies) Remove(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[handle]; !ok {
		return apperror.NotFound("No company: %s", handle)
	}
	delete(f.rows, handle)
	return nil
}

type fakeJobs struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]domain.Job
}

func (f *fakeJobs) Create(_ context.Context, data domain.JobCreate) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.rows {
		if j.Title == data.Title {
			return nil, apperror.BadRequest("Duplicate job: %s", data.Title)
		}
	}
	f.nextID++
	j := domain.Job{ID: f.nextID, Title: data.Title, Salary: data.Salary, Equity: data.Equity, CompanyHandle: data.CompanyHandle}
	f.rows[j.ID] = j
	return &j, nil
}

func (f *fakeJobs) FindAll(_ context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Job{}
	for _, j := range f.rows {
		if filter.Title != nil && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(*filter.Title)) {
			continue
		}
		if filter.MinSalary != nil && (j.Salary == nil || *j.Salary < *filter.MinSalary) {
			continue
		}
		if filter.HasEquity && (j.Equity == nil || *j.Equity <= 0) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Title < out[b].Title })
	return out, nil
}

// checkInt4 fails the way pgx does when an id does not fit jobs.id.
func checkInt4(id int) error {
	if id > math.MaxInt32 {
		return fmt.Errorf("jobly/postgres: %d is greater than maximum value for int4", id)
	}
	return nil
}

func (f *fakeJobs) Get(_ context.Context, id int) (*domain.Job, error) {
	if err := checkInt4(id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("No job: %d", id)
	}
	return &j, nil
}

func (f *fakeJobs) Update(_ context.Context, id int, fields []sqlpatch.Field) (*domain.Job, error) {
	if err := checkInt4(id); err != nil {
		return nil, err
	}
	if err := checkFields(fields, "title", "salary", "equity"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("No job: %d", id)
	}
	for _, fl := range fields {
		switch fl.Name {
		case "title":
			j.Title = fl.Value.(string)
		case "salary":
			n := fl.Value.(int)
			j.Salary = &n
		case "equity":
			e := fl.Value.(float64)
			j.Equity = &e
		}
	}
	f.rows[id] = j
	return &j, nil
}

func (f *fakeJobs) Remove(_ context.Context, id int) error {
	if err := checkInt4(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperror.NotFound("No job: %d", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeUser struct {
	domain.User
	password string
	jobs     []int
}

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]*fakeUser
	jobs *fakeJobs
}

func (f *fakeUsers) Register(_ context.Context, data domain.UserRegister) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[data.Username]; ok {
		return nil, apperror.BadRequest("Duplicate username: %s", data.Username)
	}
	u := &fakeUser{
		User:     domain.User{Username: data.Username, FirstName: data.FirstName, LastName: data.LastName, Email: data.Email, IsAdmin: data.IsAdmin},
		password: data.Password,
		jobs:     []int{},
	}
	f.rows[u.Username] = u
	out := u.User
	return &out, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[username]
	if !ok || u.password != password {
		return nil, apperror.Unauthorized("Invalid username/password")
	}
	out := u.User
	return &out, nil
}

func (f *fakeUsers) FindAll(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.rows {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, username string) (*domain.UserDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[username]
	if !ok {
		return nil, apperror.NotFound("No user: %s", username)
	}
	return &domain.UserDetail{User: u.User, Jobs: append([]int{}, u.jobs...)}, nil
}

func (f *fakeUsers) Update(_ context.Context, username string, fields []sqlpatch.Field) (*domain.User, error) {
	if err := checkFields(fields, "firstName", "lastName", "email", "password", "isAdmin"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[username]
	if !ok {
		return nil, apperror.NotFound("No user: %s", username)
	}
	for _, fl := range fields {
		switch fl.Name {
		case "firstName":
			u.FirstName = fl.Value.(string)
		case "lastName":
			u.LastName = fl.Value.(string)
		case "email":
			u.Email = fl.Value.(string)
		case "password":
			u.password = fl.Value.(string)
		case "isAdmin":
			u.IsAdmin = fl.Value.(bool)
		}
	}
	out := u.User
	return &out, nil
}

func (f *fakeUsers) Remove(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[username]; !ok {
		return apperror.NotFound("No user: %s", username)
	}
	delete(f.rows, username)
	return nil
}

func (f *fakeUsers) ApplyToJob(ctx context.Context, username string, jobID int) error {
	if _, err := f.jobs.Get(ctx, jobID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[username]
	if !ok {
		return apperror.NotFound("No user: %s", username)
	}
	for _, id := range u.jobs {
		if id == jobID {
			return apperror.BadRequest("Already applied to job: %d", jobID)
		}
	}
	u.jobs = append(u.jobs, jobID)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ApplicationEvent
	err    error
}

func (n *recordingNotifier) PublishApplication(_ context.Context, event domain.ApplicationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

// brokenCompanies fails every call the way a dropped table would.
type brokenCompanies struct{ domain.CompanyRepository }

func (brokenCompanies) FindAll(context.Context, domain.CompanyFilter) ([]domain.Company, error) {
	return nil, errors.New(`jobly/postgres: list companies: relation "companies" does not exist`)
}
