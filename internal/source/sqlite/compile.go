package sqlite

import (
	"fmt"
	"strings"

	"unify/internal/query"
	"unify/internal/record"
)

// defaultLimit caps the row count of every compiled query. Only
// SELECTs are ever emitted, so the guard is structural rather than a
// string check.
const defaultLimit = 500

// Compile turns a filter tree into a complete SELECT statement with
// positional parameters. All values travel as parameters; field names
// come from a fixed allowlist, never from input text.
func Compile(filter query.Node, limit int) (string, []any, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	where, args, err := compileNode(filter)
	if err != nil {
		return "", nil, err
	}
	stmt := fmt.Sprintf(
		"SELECT id, name, email, region, signup_date FROM users WHERE %s ORDER BY id LIMIT %d",
		where, limit)
	return stmt, args, nil
}

func compileNode(n query.Node) (string, []any, error) {
	switch node := n.(type) {
	case query.Condition:
		return compileCondition(node)
	case *query.Condition:
		return compileCondition(*node)
	case *query.Binary:
		return compileNode(*node)
	case query.Binary:
		left, largs, err := compileNode(node.Left)
		if err != nil {
			return "", nil, err
		}
		right, rargs, err := compileNode(node.Right)
		if err != nil {
			return "", nil, err
		}
		op := "AND"
		if node.Op == query.LogicOr {
			op = "OR"
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), append(largs, rargs...), nil
	default:
		return "", nil, fmt.Errorf("compile: unsupported node %T", n)
	}
}

func compileCondition(c query.Condition) (string, []any, error) {
	// Path conditions belong to the API source; no relational row can
	// satisfy one.
	if c.Field == record.FieldAPIPath {
		return "1 = 0", nil, nil
	}

	col, ok := columns[c.Field]
	if !ok {
		return "", nil, fmt.Errorf("compile: unknown field %q", c.Field)
	}

	switch c.Op {
	case query.OpEquals:
		if c.Field == record.FieldID {
			return fmt.Sprintf("%s = ?", col), []any{c.Value}, nil
		}
		return fmt.Sprintf("lower(%s) = lower(?)", col), []any{c.Value}, nil
	case query.OpIn:
		placeholders := make([]string, len(c.Values))
		args := make([]any, len(c.Values))
		for i, v := range c.Values {
			placeholders[i] = "lower(?)"
			args[i] = v
		}
		return fmt.Sprintf("lower(%s) IN (%s)", col, strings.Join(placeholders, ", ")), args, nil
	case query.OpDateRange:
		// signup_date is stored as ISO-8601 text, which sorts
		// lexicographically in date order.
		return fmt.Sprintf("(%s >= ? AND %s <= ?)", col, col),
			[]any{c.Start.Format("2006-01-02"), c.End.Format("2006-01-02")}, nil
	default:
		return "", nil, fmt.Errorf("compile: unsupported operator %q", c.Op)
	}
}

var columns = map[record.Field]string{
	record.FieldID:         "id",
	record.FieldName:       "name",
	record.FieldEmail:      "email",
	record.FieldRegion:     "region",
	record.FieldSignupDate: "signup_date",
}
