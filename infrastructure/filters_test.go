package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobly/domain"
)

func ptr[T any](v T) *T { return &v }

func TestCompanyWhere(t *testing.T) {
	where, args := companyWhere(domain.CompanyFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = companyWhere(domain.CompanyFilter{
		Name:         ptr("net"),
		MinEmployees: ptr(2),
		MaxEmployees: ptr(11),
	})
	assert.Equal(t, " WHERE name ILIKE $1 AND num_employees >= $2 AND num_employees <= $3", where)
	assert.Equal(t, []any{"%net%", 2, 11}, args)
}

func TestCompanyWhere_BindsQuotes(t *testing.T) {
	where, args := companyWhere(domain.CompanyFilter{Name: ptr("x' OR '1'='1")})
	assert.Equal(t, " WHERE name ILIKE $1", where)
	assert.NotContains(t, where, "OR")
	assert.Equal(t, []any{"%x' OR '1'='1%"}, args)
}

func TestJobWhere(t *testing.T) {
	where, args := jobWhere(domain.JobFilter{MinSalary: ptr(50000), HasEquity: true})
	assert.Equal(t, " WHERE salary >= $1 AND equity > 0", where)
	assert.Equal(t, []any{50000}, args)

	where, args = jobWhere(domain.JobFilter{Title: ptr("3")})
	assert.Equal(t, " WHERE title ILIKE $1", where)
	assert.Equal(t, []any{"%3%"}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}
