package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify/internal/record"
)

// roundTrip asserts Canonical output re-parses to the identical tree.
func roundTrip(t *testing.T, input string) {
	t.Helper()

	p := fixedParser()
	n1, err := p.Parse(input)
	require.NoError(t, err)

	text := Canonical(n1)
	n2, err := p.Parse(text)
	require.NoError(t, err, "canonical form must be valid query syntax: %q", text)

	assert.Equal(t, n1, n2, "canonical round-trip changed the tree: %q", text)
}

func TestCanonical_RoundTrip(t *testing.T) {
	inputs := []string{
		"user with id 36",
		"name user21 and region EU",
		"region EU or region NA",
		"name user21 and region EU or region NA",
		"name user21 and (region EU or region NA)",
		"signup_date between 2025-01-01 and 2025-01-31",
		"users signed up last month",
		"signup_date january 2025",
		"region in eu,na and name user21",
		`name "ann smith"`,
		"api path /users",
		"api path /users or region EU",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			roundTrip(t, in)
		})
	}
}

func TestCanonical_Forms(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "equals",
			node: Condition{Field: record.FieldName, Op: OpEquals, Value: "user21"},
			want: "name user21",
		},
		{
			name: "equals quoted",
			node: Condition{Field: record.FieldName, Op: OpEquals, Value: "ann smith"},
			want: `name "ann smith"`,
		},
		{
			name: "in",
			node: Condition{Field: record.FieldRegion, Op: OpIn, Values: []string{"EU", "NA"}},
			want: "region in EU,NA",
		},
		{
			name: "date range",
			node: Condition{
				Field: record.FieldSignupDate, Op: OpDateRange,
				Start: day(2025, time.January, 1), End: day(2025, time.January, 31),
			},
			want: "signup_date between 2025-01-01 and 2025-01-31",
		},
		{
			name: "api path",
			node: Condition{Field: record.FieldAPIPath, Op: OpEquals, Value: "/users"},
			want: "api path /users",
		},
		{
			name: "binary is always parenthesized",
			node: Binary{
				Op:    LogicOr,
				Left:  Condition{Field: record.FieldRegion, Op: OpEquals, Value: "EU"},
				Right: Condition{Field: record.FieldRegion, Op: OpEquals, Value: "NA"},
			},
			want: "(region EU or region NA)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.node))
		})
	}
}
