package query

import (
	"strconv"
	"time"

	"unify/internal/record"
)

// Matches evaluates a filter tree against one record in memory. It is
// the post-filter used for adapters that over-return candidates instead
// of executing the tree natively, and the whole filter for the in-memory
// adapter.
func Matches(n Node, rec record.SourceRecord) bool {
	switch t := n.(type) {
	case Condition:
		return matchCondition(t, rec)
	case *Condition:
		return matchCondition(*t, rec)
	case Binary:
		if t.Op == LogicAnd {
			return Matches(t.Left, rec) && Matches(t.Right, rec)
		}
		return Matches(t.Left, rec) || Matches(t.Right, rec)
	case *Binary:
		return Matches(*t, rec)
	default:
		return false
	}
}

func matchCondition(c Condition, rec record.SourceRecord) bool {
	switch c.Op {
	case OpEquals:
		return matchEquals(c.Field, c.Value, rec)
	case OpIn:
		for _, v := range c.Values {
			if matchEquals(c.Field, v, rec) {
				return true
			}
		}
		return false
	case OpDateRange:
		raw, ok := rec.Fields[c.Field]
		if !ok || raw == "" {
			return false
		}
		d, err := time.ParseInLocation(isoDate, raw, time.UTC)
		if err != nil {
			return false
		}
		return !d.Before(c.Start) && !d.After(c.End)
	default:
		return false
	}
}

func matchEquals(field record.Field, want string, rec record.SourceRecord) bool {
	raw, ok := rec.Fields[field]
	if !ok || raw == "" {
		// Path conditions match only records stamped with a path by
		// the REST adapter; for every other source they are false,
		// which is what routes them away from sql/file.
		return false
	}
	if field == record.FieldID {
		a, errA := strconv.Atoi(raw)
		b, errB := strconv.Atoi(want)
		if errA == nil && errB == nil {
			return a == b
		}
	}
	return record.Normalize(raw) == record.Normalize(want)
}
