package domain

import (
	"net/url"
	"sort"
	"strconv"

	"jobly/apperror"
)

// CompanyFilter narrows GET /companies. Nil fields do not filter.
type CompanyFilter struct {
	Name         *string
	MinEmployees *int
	MaxEmployees *int
}

// JobFilter narrows GET /jobs. HasEquity false means no equity filter.
type JobFilter struct {
	Title     *string
	MinSalary *int
	HasEquity bool
}

// ParseCompanyFilter reads name, minEmployees and maxEmployees from a
// query string. Any other key is rejected.
func ParseCompanyFilter(q url.Values) (CompanyFilter, error) {
	var f CompanyFilter
	for _, key := range sortedKeys(q) {
		value := q.Get(key)
		switch key {
		case "name":
			if value != "" {
				f.Name = &value
			}
		case "minEmployees":
			n, err := parseNonNegative(key, value)
			if err != nil {
				return CompanyFilter{}, err
			}
			f.MinEmployees = &n
		case "maxEmployees":
			n, err := parseNonNegative(key, value)
			if err != nil {
				return CompanyFilter{}, err
			}
			f.MaxEmployees = &n
		default:
			return CompanyFilter{}, apperror.BadRequest("Unknown filter: %s", key)
		}
	}

	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return CompanyFilter{}, apperror.BadRequest("minEmployees cannot be greater than maxEmployees")
	}
	return f, nil
}

// ParseJobFilter reads title, minSalary and hasEquity from a query string.
// Any other key is rejected.
func ParseJobFilter(q url.Values) (JobFilter, error) {
	var f JobFilter
	for _, key := range sortedKeys(q) {
		value := q.Get(key)
		switch key {
		case "title":
			if value != "" {
				f.Title = &value
			}
		case "minSalary":
			n, err := parseNonNegative(key, value)
			if err != nil {
				return JobFilter{}, err
			}
			f.MinSalary = &n
		case "hasEquity":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return JobFilter{}, apperror.BadRequest("hasEquity must be true or false")
			}
			f.HasEquity = b
		default:
			return JobFilter{}, apperror.BadRequest("Unknown filter: %s", key)
		}
	}
	return f, nil
}

func parseNonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, apperror.BadRequest("%s must be a non-negative integer", key)
	}
	return n, nil
}

func sortedKeys(q url.Values) []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
