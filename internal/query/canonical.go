package query

import (
	"strconv"
	"strings"

	"unify/internal/record"
)

// Canonical renders a filter tree in its canonical text form. The form
// is itself valid query syntax, and parsing it back yields a
// structurally identical tree: every interior node is parenthesized, so
// no left-to-right refolding can change the shape.
func Canonical(n Node) string {
	switch t := n.(type) {
	case Condition:
		return canonicalCondition(t)
	case *Condition:
		return canonicalCondition(*t)
	case Binary:
		return "(" + Canonical(t.Left) + " " + t.Op.String() + " " + Canonical(t.Right) + ")"
	case *Binary:
		return Canonical(*t)
	default:
		return ""
	}
}

func canonicalCondition(c Condition) string {
	switch {
	case c.Field == record.FieldAPIPath:
		return "api path " + c.Value
	case c.Op == OpIn:
		return string(c.Field) + " in " + strings.Join(c.Values, ",")
	case c.Op == OpDateRange:
		return string(c.Field) + " between " +
			c.Start.Format(isoDate) + " and " + c.End.Format(isoDate)
	default:
		return string(c.Field) + " " + quoteIfNeeded(c.Value)
	}
}

// quoteIfNeeded wraps values the tokenizer would otherwise split.
func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, " ()\"") {
		return strconv.Quote(v)
	}
	return v
}
