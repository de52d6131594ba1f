package domain

import "jobly/sqlpatch"

// Job is the public representation of a row in jobs.
type Job struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"companyHandle"`
}

type JobCreate struct {
	Title         string   `json:"title" binding:"required"`
	Salary        *int     `json:"salary" binding:"omitempty,min=0"`
	Equity        *float64 `json:"equity" binding:"omitempty,min=0,max=1"`
	CompanyHandle string   `json:"companyHandle" binding:"required,max=25"`
}

// JobUpdate is a partial update. A job cannot move to another company.
type JobUpdate struct {
	Title  *string  `json:"title" binding:"omitempty,min=1"`
	Salary *int     `json:"salary" binding:"omitempty,min=0"`
	Equity *float64 `json:"equity" binding:"omitempty,min=0,max=1"`
}

func (u JobUpdate) Fields() []sqlpatch.Field {
	var fields []sqlpatch.Field
	if u.Title != nil {
		fields = append(fields, sqlpatch.Field{Name: "title", Value: *u.Title})
	}
	if u.Salary != nil {
		fields = append(fields, sqlpatch.Field{Name: "salary", Value: *u.Salary})
	}
	if u.Equity != nil {
		fields = append(fields, sqlpatch.Field{Name: "equity", Value: *u.Equity})
	}
	return fields
}
