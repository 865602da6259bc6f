package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify/internal/record"
)

// fixedParser resolves relative dates against 2025-02-15.
func fixedParser() *Parser {
	return &Parser{Now: func() time.Time {
		return time.Date(2025, time.February, 15, 10, 30, 0, 0, time.UTC)
	}}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_SingleCondition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{
			name:  "bare id with intent phrase",
			input: "user with id 36",
			want:  Condition{Field: record.FieldID, Op: OpEquals, Value: "36"},
		},
		{
			name:  "explicit name",
			input: "name user21",
			want:  Condition{Field: record.FieldName, Op: OpEquals, Value: "user21"},
		},
		{
			name:  "natural phrasing with region",
			input: "show users in region EU",
			want:  Condition{Field: record.FieldRegion, Op: OpEquals, Value: "EU"},
		},
		{
			name:  "bare email literal",
			input: "user21@example.com",
			want:  Condition{Field: record.FieldEmail, Op: OpEquals, Value: "user21@example.com"},
		},
		{
			name:  "email cue",
			input: "email is user21@example.com",
			want:  Condition{Field: record.FieldEmail, Op: OpEquals, Value: "user21@example.com"},
		},
		{
			name:  "id with equals sign",
			input: "id = 36",
			want:  Condition{Field: record.FieldID, Op: OpEquals, Value: "36"},
		},
		{
			name:  "quoted multi-word name",
			input: `name "ann smith"`,
			want:  Condition{Field: record.FieldName, Op: OpEquals, Value: "ann smith"},
		},
		{
			name:  "in list",
			input: "region in eu,na",
			want:  Condition{Field: record.FieldRegion, Op: OpIn, Values: []string{"EU", "NA"}},
		},
		{
			name:  "in list with spaces",
			input: "region in eu, na",
			want:  Condition{Field: record.FieldRegion, Op: OpIn, Values: []string{"EU", "NA"}},
		},
		{
			name:  "api path namespace",
			input: "show me data from api path /users",
			want:  Condition{Field: record.FieldAPIPath, Op: OpEquals, Value: "/users"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fixedParser().Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Dates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{
			name:  "between range inclusive",
			input: "signup_date between 2025-01-01 and 2025-01-31",
			want: Condition{
				Field: record.FieldSignupDate, Op: OpDateRange,
				Start: day(2025, time.January, 1), End: day(2025, time.January, 31),
			},
		},
		{
			name:  "last month resolves against now",
			input: "users signed up last month",
			want: Condition{
				Field: record.FieldSignupDate, Op: OpDateRange,
				Start: day(2025, time.January, 1), End: day(2025, time.January, 31),
			},
		},
		{
			name:  "named month and year",
			input: "signup_date january 2025",
			want: Condition{
				Field: record.FieldSignupDate, Op: OpDateRange,
				Start: day(2025, time.January, 1), End: day(2025, time.January, 31),
			},
		},
		{
			name:  "single iso day",
			input: "signup_date on 2025-01-22",
			want: Condition{
				Field: record.FieldSignupDate, Op: OpDateRange,
				Start: day(2025, time.January, 22), End: day(2025, time.January, 22),
			},
		},
		{
			name:  "december rolls the year",
			input: "signup_date december 2024",
			want: Condition{
				Field: record.FieldSignupDate, Op: OpDateRange,
				Start: day(2024, time.December, 1), End: day(2024, time.December, 31),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fixedParser().Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_LeftToRightFolding(t *testing.T) {
	// "A and B or C" folds in appearance order: OR(AND(A,B),C).
	got, err := fixedParser().Parse("name user21 and region EU or region NA")
	require.NoError(t, err)

	want := Binary{
		Op: LogicOr,
		Left: Binary{
			Op:    LogicAnd,
			Left:  Condition{Field: record.FieldName, Op: OpEquals, Value: "user21"},
			Right: Condition{Field: record.FieldRegion, Op: OpEquals, Value: "EU"},
		},
		Right: Condition{Field: record.FieldRegion, Op: OpEquals, Value: "NA"},
	}
	assert.Equal(t, want, got)
}

func TestParse_ExplicitGrouping(t *testing.T) {
	// "A and (B or C)" keeps the group as a subtree.
	got, err := fixedParser().Parse("name user21 and (region EU or region NA)")
	require.NoError(t, err)

	want := Binary{
		Op:   LogicAnd,
		Left: Condition{Field: record.FieldName, Op: OpEquals, Value: "user21"},
		Right: Binary{
			Op:    LogicOr,
			Left:  Condition{Field: record.FieldRegion, Op: OpEquals, Value: "EU"},
			Right: Condition{Field: record.FieldRegion, Op: OpEquals, Value: "NA"},
		},
	}
	assert.Equal(t, want, got)
}

func TestParse_OrUnion(t *testing.T) {
	got, err := fixedParser().Parse("region EU or region NA")
	require.NoError(t, err)

	want := Binary{
		Op:    LogicOr,
		Left:  Condition{Field: record.FieldRegion, Op: OpEquals, Value: "EU"},
		Right: Condition{Field: record.FieldRegion, Op: OpEquals, Value: "NA"},
	}
	assert.Equal(t, want, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ParseErrorKind
	}{
		{"unknown field", "color blue", ErrUnknownField},
		{"unknown token after group", "(region EU) nonsense", ErrUnknownField},
		{"missing value after cue", "users with name", ErrMissingValue},
		{"missing value after id", "id", ErrMissingValue},
		{"empty input", "", ErrMissingValue},
		{"fillers only", "show me all users", ErrMissingValue},
		{"unbalanced open", "(region EU or region NA", ErrUnbalancedGroup},
		{"unbalanced close", "region EU)", ErrUnbalancedGroup},
		{"stray close", ") region EU", ErrUnbalancedGroup},
		{"bad iso date", "signup_date 2025-13-45", ErrBadDate},
		{"garbage date", "signup_date soonish", ErrBadDate},
		{"between missing and", "signup_date between 2025-01-01 until 2025-02-01", ErrBadDate},
		{"month without year", "signup_date january", ErrBadDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixedParser().Parse(tt.input)
			require.Error(t, err)
			pe, ok := AsParseError(err)
			require.True(t, ok, "expected *ParseError, got %T", err)
			assert.Equal(t, tt.kind, pe.Kind)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := fixedParser().Parse("name user21 and color blue")
	pe, ok := AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, ErrUnknownField, pe.Kind)
	assert.Equal(t, "color", pe.Token)
	assert.Equal(t, 16, pe.Pos, "position of the offending token in the input")
}

func TestFields(t *testing.T) {
	n, err := fixedParser().Parse("region EU and name user21 or api path /users")
	require.NoError(t, err)

	assert.Equal(t, []record.Field{record.FieldName, record.FieldRegion}, Fields(n),
		"canonical column order, path namespace excluded")
}

func TestAPIPath(t *testing.T) {
	n, err := fixedParser().Parse("api path /users and region EU")
	require.NoError(t, err)

	path, ok := APIPath(n)
	require.True(t, ok)
	assert.Equal(t, "/users", path)

	n2, err := fixedParser().Parse("region EU")
	require.NoError(t, err)
	_, ok = APIPath(n2)
	assert.False(t, ok)
}
