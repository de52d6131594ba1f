package infrastructure

import (
	"strconv"
	"strings"

	"jobly/domain"
)

// whereBuilder collects AND-ed conditions and their bind values. Caller
// input only ever reaches the query through args.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond after replacing its single "?" with the next placeholder.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1))
}

func (w *whereBuilder) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func companyWhere(f domain.CompanyFilter) (string, []any) {
	var w whereBuilder
	if f.Name != nil {
		w.add("name ILIKE ?", "%"+escapeLike(*f.Name)+"%")
	}
	if f.MinEmployees != nil {
		w.add("num_employees >= ?", *f.MinEmployees)
	}
	if f.MaxEmployees != nil {
		w.add("num_employees <= ?", *f.MaxEmployees)
	}
	return w.clause(), w.args
}

func jobWhere(f domain.JobFilter) (string, []any) {
	var w whereBuilder
	if f.Title != nil {
		w.add("title ILIKE ?", "%"+escapeLike(*f.Title)+"%")
	}
	if f.MinSalary != nil {
		w.add("salary >= ?", *f.MinSalary)
	}
	if f.HasEquity {
		w.addRaw("equity > 0")
	}
	return w.clause(), w.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
