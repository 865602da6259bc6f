package record

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// KeyKind says which fallback rule produced an identity key.
//
// The fallback chain is fixed and ordered:
//  1. KindID    - the record has an id
//  2. KindEmail - no id, but an email
//  3. KindTuple - neither; the full field tuple stands in
//
// The chain is the linchpin of cross-source deduplication: two records
// are "the same entity" iff their keys compare equal.
type KeyKind int

const (
	KindID KeyKind = iota
	KindEmail
	KindTuple
)

func (k KeyKind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindEmail:
		return "email"
	case KindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// Key identifies one logical entity across sources.
type Key struct {
	Kind  KeyKind
	Value string
}

// String renders the key as "kind:value", usable as a map key.
func (k Key) String() string {
	return k.Kind.String() + ":" + k.Value
}

// Less orders keys ascending: by kind first (id < email < tuple), then
// by value. Pure-digit values under the same kind compare numerically so
// id 9 sorts before id 36.
func (k Key) Less(other Key) bool {
	if k.Kind != other.Kind {
		return k.Kind < other.Kind
	}
	if isDigits(k.Value) && isDigits(other.Value) {
		if len(k.Value) != len(other.Value) {
			return len(k.Value) < len(other.Value)
		}
	}
	return k.Value < other.Value
}

// IdentityKey derives the record's identity key via the fallback chain.
func (r SourceRecord) IdentityKey() Key {
	if id := strings.TrimSpace(r.Fields[FieldID]); id != "" {
		return Key{Kind: KindID, Value: Normalize(id)}
	}
	if email := strings.TrimSpace(r.Fields[FieldEmail]); email != "" {
		return Key{Kind: KindEmail, Value: Normalize(email)}
	}
	// Full tuple fallback: every entity field in canonical order.
	parts := make([]string, 0, len(EntityFields))
	for _, f := range EntityFields {
		parts = append(parts, string(f)+"="+Normalize(r.Fields[f]))
	}
	return Key{Kind: KindTuple, Value: strings.Join(parts, "|")}
}

// Normalize canonicalizes a field value for identity comparison:
// NFC normalization, whitespace trim, lowercase. "User21" and "user21"
// from two sources are the same value.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
