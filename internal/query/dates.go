package query

import (
	"time"

	"unify/internal/record"
)

const isoDate = "2006-01-02"

// parseDateExpr consumes a date expression for field (always
// signup_date) starting at the parser's current token. Recognized forms:
//
//	2025-01-22                      single day
//	between 2025-01-01 and 2025-01-31   inclusive range
//	last month                      previous calendar month
//	january 2025                    named calendar month
//
// Relative phrases resolve against the parser's reference time, so the
// returned condition is always a concrete inclusive range.
func (p *parser) parseDateExpr(field record.Field) (Condition, error) {
	tok, ok := p.peek()
	if !ok {
		return Condition{}, &ParseError{Kind: ErrMissingValue, Pos: p.endPos()}
	}

	switch {
	case tok.text == "between":
		p.next()
		start, err := p.expectDate()
		if err != nil {
			return Condition{}, err
		}
		if and, ok := p.peek(); !ok || and.text != "and" {
			return Condition{}, &ParseError{Kind: ErrBadDate, Pos: p.endPos(), Token: "between"}
		}
		p.next()
		end, err := p.expectDate()
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: field, Op: OpDateRange, Start: start, End: end}, nil

	case tok.text == "last" || tok.text == "previous":
		p.next()
		m, ok := p.peek()
		if !ok || m.text != "month" {
			return Condition{}, &ParseError{Kind: ErrBadDate, Pos: tok.pos, Token: tok.text}
		}
		p.next()
		start, end := lastMonth(p.now)
		return Condition{Field: field, Op: OpDateRange, Start: start, End: end}, nil

	case isMonth(tok.text):
		p.next()
		y, ok := p.peek()
		if !ok {
			return Condition{}, &ParseError{Kind: ErrBadDate, Pos: tok.pos, Token: tok.text}
		}
		year, err := time.Parse("2006", y.text)
		if err != nil {
			return Condition{}, &ParseError{Kind: ErrBadDate, Pos: y.pos, Token: y.text}
		}
		p.next()
		start, end := monthRange(year.Year(), months[tok.text])
		return Condition{Field: field, Op: OpDateRange, Start: start, End: end}, nil

	case isoDateRe.MatchString(tok.text):
		d, err := p.expectDate()
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: field, Op: OpDateRange, Start: d, End: d}, nil

	default:
		return Condition{}, &ParseError{Kind: ErrBadDate, Pos: tok.pos, Token: tok.text}
	}
}

// expectDate consumes one ISO YYYY-MM-DD token.
func (p *parser) expectDate() (time.Time, error) {
	tok, ok := p.peek()
	if !ok {
		return time.Time{}, &ParseError{Kind: ErrBadDate, Pos: p.endPos()}
	}
	d, err := time.ParseInLocation(isoDate, tok.text, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Kind: ErrBadDate, Pos: tok.pos, Token: tok.text}
	}
	p.next()
	return d, nil
}

func isMonth(s string) bool {
	_, ok := months[s]
	return ok
}

// lastMonth returns the previous calendar month of ref, inclusive on
// both ends.
func lastMonth(ref time.Time) (time.Time, time.Time) {
	firstOfThis := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfThis.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// monthRange returns the named calendar month, inclusive on both ends.
func monthRange(year int, m time.Month) (time.Time, time.Time) {
	start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
