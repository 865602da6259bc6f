package query

import (
	"regexp"
	"time"

	"unify/internal/record"
)

// The vocabulary is static: adding a field means extending these tables.
// The parser rejects any token it cannot place.

// fieldCues maps explicit field tokens and their synonyms to fields.
var fieldCues = map[string]record.Field{
	"id":          record.FieldID,
	"name":        record.FieldName,
	"email":       record.FieldEmail,
	"region":      record.FieldRegion,
	"signup_date": record.FieldSignupDate,
	"signup":      record.FieldSignupDate,
	"date":        record.FieldSignupDate,
}

// fillers are skipped wherever a condition may start. They let natural
// phrasings like "show me users in region EU" reach the field cues.
var fillers = map[string]bool{
	"show": true, "me": true, "all": true, "the": true,
	"user": true, "users": true, "data": true, "from": true,
	"find": true, "get": true, "list": true, "with": true,
	"in": true, "who": true, "that": true, "where": true,
	"please": true,
}

// valueFillers are skipped between a field cue and its value ("id is 36",
// "signup_date on 2025-01-22").
var valueFillers = map[string]bool{
	"=": true, "is": true, "on": true, "of": true,
}

// regions are the recognized region codes; a bare region token is a
// region condition even without the "region" cue.
var regions = map[string]bool{
	"na": true, "eu": true, "apac": true, "latam": true,
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// emailRe recognizes bare email literals as email conditions.
var emailRe = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// isoDateRe recognizes YYYY-MM-DD literals.
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isConnective(s string) bool { return s == "and" || s == "or" }
