// Package sqlpatch turns a partial update into the SET clause of a
// parameterized UPDATE statement.
package sqlpatch

import (
	"strconv"
	"strings"

	"jobly/apperror"
)

// Field is one column a caller wants to change. Updates are passed as an
// ordered slice so placeholder numbering follows the caller's order.
type Field struct {
	Name  string
	Value any
}

// Fragment is the output of ForPartialUpdate.
type Fragment struct {
	// SetCols looks like `"first_name"=$1, "age"=$2`.
	SetCols string
	// Values holds the bind values in placeholder order.
	Values []any
}

// ForPartialUpdate builds the SET fragment for fields. Names found in
// columns are replaced by their column name; the rest are used verbatim.
//
//	ForPartialUpdate([]Field{{"firstName", "Aliya"}, {"age", 32}}, map[string]string{"firstName": "first_name"})
//	=> Fragment{SetCols: `"first_name"=$1, "age"=$2`, Values: []any{"Aliya", 32}}
func ForPartialUpdate(fields []Field, columns map[string]string) (Fragment, error) {
	if len(fields) == 0 {
		return Fragment{}, apperror.BadRequest("No data")
	}

	cols := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, f := range fields {
		col, ok := columns[f.Name]
		if !ok {
			col = f.Name
		}
		cols[i] = `"` + col + `"=$` + strconv.Itoa(i+1)
		values[i] = f.Value
	}

	return Fragment{
		SetCols: strings.Join(cols, ", "),
		Values:  values,
	}, nil
}

// NextPlaceholder returns the placeholder that follows the SET values,
// used for the WHERE key.
func (f Fragment) NextPlaceholder() string {
	return "$" + strconv.Itoa(len(f.Values)+1)
}

// Args returns the SET values followed by extra, ready to pass to a query.
func (f Fragment) Args(extra ...any) []any {
	args := make([]any, 0, len(f.Values)+len(extra))
	args = append(args, f.Values...)
	return append(args, extra...)
}
