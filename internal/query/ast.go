package query

import (
	"time"

	"unify/internal/record"
)

// Node is the parsed form of a user query: a binary boolean tree whose
// leaves are Conditions.
//
// This is a sealed interface - only Condition and Binary implement it.
// The marker method keeps type switches over nodes exhaustive.
type Node interface {
	node()
}

// CondOp is the operator of a leaf condition.
type CondOp int

const (
	// OpEquals matches a single value, case-insensitively.
	OpEquals CondOp = iota

	// OpIn matches any value of a set.
	OpIn

	// OpDateRange matches dates within [Start, End], inclusive on both
	// ends. Relative date phrases are resolved to OpDateRange at parse
	// time; no relative form survives into the tree.
	OpDateRange
)

// Condition is a single field/operator/value predicate.
//
// Exactly one value shape is populated, by operator:
//
//	OpEquals    -> Value
//	OpIn        -> Values
//	OpDateRange -> Start, End (UTC midnight)
type Condition struct {
	Field  record.Field
	Op     CondOp
	Value  string
	Values []string
	Start  time.Time
	End    time.Time
}

func (Condition) node() {}

// LogicOp tags an interior node.
type LogicOp int

const (
	LogicAnd LogicOp = iota
	LogicOr
)

func (op LogicOp) String() string {
	if op == LogicOr {
		return "or"
	}
	return "and"
}

// Binary joins two subtrees with and/or. Every interior node has exactly
// two children; n-ary input folds into a left-leaning chain.
type Binary struct {
	Op    LogicOp
	Left  Node
	Right Node
}

func (Binary) node() {}

// Fields returns the entity fields referenced by the tree, in canonical
// column order. The api-path namespace is a routing cue, not a user
// attribute, and is excluded.
func Fields(n Node) []record.Field {
	seen := make(map[record.Field]bool)
	collectFields(n, seen)

	out := make([]record.Field, 0, len(seen))
	for _, f := range record.EntityFields {
		if seen[f] {
			out = append(out, f)
		}
	}
	return out
}

func collectFields(n Node, seen map[record.Field]bool) {
	switch t := n.(type) {
	case Condition:
		if t.Field != record.FieldAPIPath {
			seen[t.Field] = true
		}
	case *Condition:
		collectFields(*t, seen)
	case Binary:
		collectFields(t.Left, seen)
		collectFields(t.Right, seen)
	case *Binary:
		collectFields(*t, seen)
	}
}

// APIPath returns the first api-path condition value in the tree, if any.
// The REST adapter uses it to scope which endpoint it fetches.
func APIPath(n Node) (string, bool) {
	switch t := n.(type) {
	case Condition:
		if t.Field == record.FieldAPIPath {
			return t.Value, true
		}
	case *Condition:
		return APIPath(*t)
	case Binary:
		if p, ok := APIPath(t.Left); ok {
			return p, true
		}
		return APIPath(t.Right)
	case *Binary:
		return APIPath(*t)
	}
	return "", false
}
