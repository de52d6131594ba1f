package domain

import "jobly/sqlpatch"

// User never carries the password hash.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserDetail adds the ids of the jobs the user applied to.
type UserDetail struct {
	User
	Jobs []int `json:"jobs"`
}

type UserRegister struct {
	Username  string `json:"username" binding:"required,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=72,maxbytes=72"`
	FirstName string `json:"firstName" binding:"required,max=30"`
	LastName  string `json:"lastName" binding:"required,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

type UserUpdate struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Email     *string `json:"email" binding:"omitempty,email,max=60"`
	Password  *string `json:"password" binding:"omitempty,min=5,max=72,maxbytes=72"`
	IsAdmin   *bool   `json:"isAdmin"`
}

func (u UserUpdate) Fields() []sqlpatch.Field {
	var fields []sqlpatch.Field
	if u.FirstName != nil {
		fields = append(fields, sqlpatch.Field{Name: "firstName", Value: *u.FirstName})
	}
	if u.LastName != nil {
		fields = append(fields, sqlpatch.Field{Name: "lastName", Value: *u.LastName})
	}
	if u.Email != nil {
		fields = append(fields, sqlpatch.Field{Name: "email", Value: *u.Email})
	}
	if u.Password != nil {
		fields = append(fields, sqlpatch.Field{Name: "password", Value: *u.Password})
	}
	if u.IsAdmin != nil {
		fields = append(fields, sqlpatch.Field{Name: "isAdmin", Value: *u.IsAdmin})
	}
	return fields
}

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Claims is what a signed token asserts about its bearer.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
