package query

import (
	"strings"
	"time"

	"unify/internal/record"
)

// Parser turns query text into a filter tree. Now supplies the reference
// time for relative date phrases; tests pin it, production leaves the
// default.
type Parser struct {
	Now func() time.Time
}

// NewParser returns a Parser resolving relative dates against the wall
// clock.
func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

// Parse parses text into a filter tree. It fails with *ParseError on
// malformed input and never guesses: an unknown field token, a dangling
// cue, an unbalanced group, or a bad date all reject the whole query.
func (p *Parser) Parse(text string) (Node, error) {
	toks := tokenize(text)
	pr := &parser{toks: toks, now: p.Now().UTC(), input: text}

	node, err := pr.parseExpr(false)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, &ParseError{Kind: ErrMissingValue, Pos: pr.endPos()}
	}
	return node, nil
}

// parser is the per-call state: a token cursor plus the resolved
// reference time.
type parser struct {
	toks  []token
	i     int
	now   time.Time
	input string
}

func (p *parser) peek() (token, bool) {
	if p.i >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) next() token {
	t := p.toks[p.i]
	p.i++
	return t
}

// endPos is the position just past the last token, for errors about
// missing trailing input.
func (p *parser) endPos() int {
	return len(p.input)
}

// parseExpr parses operands joined by and/or, folding strictly
// left-to-right: "A and B or C" is OR(AND(A,B),C). There is no
// precedence between the connectives; only explicit parentheses group.
//
// When insideGroup is set, a ")" terminates the expression and is left
// for the caller to consume.
func (p *parser) parseExpr(insideGroup bool) (Node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			if insideGroup {
				return nil, &ParseError{Kind: ErrUnbalancedGroup, Pos: p.endPos()}
			}
			return left, nil
		}
		if tok.text == ")" {
			if !insideGroup {
				return nil, &ParseError{Kind: ErrUnbalancedGroup, Pos: tok.pos, Token: ")"}
			}
			return left, nil
		}
		if !isConnective(tok.text) {
			return nil, &ParseError{Kind: ErrUnknownField, Pos: tok.pos, Token: tok.text}
		}

		p.next()
		op := LogicAnd
		if tok.text == "or" {
			op = LogicOr
		}

		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

// parseOperand parses one condition or one parenthesized group.
func (p *parser) parseOperand() (Node, error) {
	p.skipFillers()

	tok, ok := p.peek()
	if !ok {
		return nil, &ParseError{Kind: ErrMissingValue, Pos: p.endPos()}
	}

	if tok.text == ")" {
		return nil, &ParseError{Kind: ErrUnbalancedGroup, Pos: tok.pos, Token: ")"}
	}

	if tok.text == "(" {
		p.next()
		inner, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.text != ")" {
			return nil, &ParseError{Kind: ErrUnbalancedGroup, Pos: p.endPos()}
		}
		p.next()
		return inner, nil
	}

	return p.parseCondition()
}

// parseCondition recognizes one field cue and consumes its value
// token(s) up to the next connective, group boundary, or end of input.
func (p *parser) parseCondition() (Node, error) {
	tok, _ := p.peek()

	switch {
	// Bare email literal: "user21@example.com" is an email condition
	// without needing the cue.
	case emailRe.MatchString(tok.text):
		p.next()
		return Condition{Field: record.FieldEmail, Op: OpEquals, Value: tok.text}, nil

	// Bare region code: "EU" alone means region EU.
	case regions[tok.text]:
		p.next()
		return Condition{Field: record.FieldRegion, Op: OpEquals, Value: strings.ToUpper(tok.text)}, nil

	// "signed up <date expression>".
	case tok.text == "signed":
		p.next()
		if up, ok := p.peek(); ok && up.text == "up" {
			p.next()
		}
		p.skipValueFillers()
		return p.parseDateExpr(record.FieldSignupDate)

	// "api path /users": a path-scoped condition answered only by the
	// REST adapter.
	case tok.text == "api":
		p.next()
		if pathTok, ok := p.peek(); !ok || pathTok.text != "path" {
			return nil, &ParseError{Kind: ErrUnknownField, Pos: tok.pos, Token: tok.text}
		}
		p.next()
		val, ok := p.peek()
		if !ok || val.text == ")" || isConnective(val.text) {
			return nil, &ParseError{Kind: ErrMissingValue, Pos: p.endPos()}
		}
		p.next()
		return Condition{Field: record.FieldAPIPath, Op: OpEquals, Value: val.text}, nil

	// Bare ISO date: treated as a signup-date condition.
	case isoDateRe.MatchString(tok.text) || tok.text == "between":
		return p.parseDateExpr(record.FieldSignupDate)
	}

	field, ok := fieldCues[tok.text]
	if !ok {
		return nil, &ParseError{Kind: ErrUnknownField, Pos: tok.pos, Token: tok.text}
	}
	p.next()
	p.skipValueFillers()

	if field == record.FieldSignupDate {
		return p.parseDateExpr(field)
	}

	// "<field> in v1,v2,...": the In operator.
	if in, ok := p.peek(); ok && in.text == "in" {
		p.next()
		values, err := p.parseValueList(field)
		if err != nil {
			return nil, err
		}
		return Condition{Field: field, Op: OpIn, Values: values}, nil
	}

	value, err := p.parseValue(field)
	if err != nil {
		return nil, err
	}
	return Condition{Field: field, Op: OpEquals, Value: value}, nil
}

// parseValue consumes value tokens up to the next connective or group
// boundary and joins them with single spaces.
func (p *parser) parseValue(field record.Field) (string, error) {
	var parts []string
	for {
		tok, ok := p.peek()
		if !ok || isConnective(tok.text) || tok.text == ")" || tok.text == "(" {
			break
		}
		p.next()
		parts = append(parts, tok.text)
	}
	if len(parts) == 0 {
		return "", &ParseError{Kind: ErrMissingValue, Pos: p.endPos()}
	}
	value := strings.Join(parts, " ")
	if field == record.FieldRegion {
		value = strings.ToUpper(value)
	}
	return value, nil
}

// parseValueList consumes a comma-separated value list for In. Tokens
// continue the list as long as the previous one ends with a comma, so
// both "eu,na" and "eu, na" work.
func (p *parser) parseValueList(field record.Field) ([]string, error) {
	tok, ok := p.peek()
	if !ok || isConnective(tok.text) || tok.text == ")" {
		return nil, &ParseError{Kind: ErrMissingValue, Pos: p.endPos()}
	}
	p.next()

	raw := tok.text
	for strings.HasSuffix(raw, ",") {
		nxt, ok := p.peek()
		if !ok || isConnective(nxt.text) || nxt.text == ")" {
			break
		}
		p.next()
		raw += nxt.text
	}

	var values []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if field == record.FieldRegion {
			v = strings.ToUpper(v)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, &ParseError{Kind: ErrMissingValue, Pos: tok.pos, Token: tok.text}
	}
	return values, nil
}

// skipFillers advances past words like "show", "users", "with" that may
// precede a condition.
func (p *parser) skipFillers() {
	for {
		tok, ok := p.peek()
		if !ok || !fillers[tok.text] {
			return
		}
		p.next()
	}
}

// skipValueFillers advances past "=", "is", "on" between a cue and its
// value.
func (p *parser) skipValueFillers() {
	for {
		tok, ok := p.peek()
		if !ok || !valueFillers[tok.text] {
			return
		}
		p.next()
	}
}
