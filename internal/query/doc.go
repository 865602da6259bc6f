// Package query turns loosely structured natural-language text into a
// boolean filter tree over the fixed user-field vocabulary, and evaluates
// such trees against records in memory.
//
// The language is deliberately small: explicit field cues, a handful of
// synonyms, and/or connectives, parentheses for grouping, ISO dates,
// "between A and B" ranges, and the relative phrases "last month" and
// "<Month> <Year>". Connectives fold strictly left-to-right; there is no
// operator precedence. Mixed and/or expressions must be parenthesized to
// say anything other than appearance order.
package query
