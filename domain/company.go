package domain

import "jobly/sqlpatch"

// Company is the public representation of a row in companies.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyDetail is a company together with the jobs it posts.
type CompanyDetail struct {
	Company
	Jobs []Job `json:"jobs"`
}

type CompanyCreate struct {
	Handle       string  `json:"handle" binding:"required,max=25"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

// CompanyUpdate is a partial update; nil fields are left untouched.
// The handle is the company's identity and cannot be changed.
type CompanyUpdate struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

// Fields lists the supplied fields in declaration order.
func (u CompanyUpdate) Fields() []sqlpatch.Field {
	var fields []sqlpatch.Field
	if u.Name != nil {
		fields = append(fields, sqlpatch.Field{Name: "name", Value: *u.Name})
	}
	if u.Description != nil {
		fields = append(fields, sqlpatch.Field{Name: "description", Value: *u.Description})
	}
	if u.NumEmployees != nil {
		fields = append(fields, sqlpatch.Field{Name: "numEmployees", Value: *u.NumEmployees})
	}
	if u.LogoURL != nil {
		fields = append(fields, sqlpatch.Field{Name: "logoUrl", Value: *u.LogoURL})
	}
	return fields
}
