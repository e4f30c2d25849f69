// Package sqlname converts identifier-like values from migration files into
// SQL identifiers. Backends overlay reserved-word quoting on top of the
// base conversion.
package sqlname

import (
	"regexp"
	"strings"
)

// ToSQLName converts an identifier-like value by replacing '-' with '_'.
func ToSQLName(k string) string {
	return strings.ReplaceAll(k, "-", "_")
}

// ToSQLList joins converted identifiers with ", ".
func ToSQLList(ks []string) string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = ToSQLName(k)
	}
	return strings.Join(out, ", ")
}

// JoinList joins already-converted identifiers with ", ".
func JoinList(ks []string) string {
	return strings.Join(ks, ", ")
}

// h2v2 reserves identifiers that are keywords since H2 2.x.
var h2ReservedWords = map[string]struct{}{
	"VALUE": {},
	"USER":  {},
}

// H2v2Name upper-cases the converted identifier and wraps reserved words
// in backticks.
func H2v2Name(k string) string {
	n := strings.ToUpper(ToSQLName(k))
	if _, ok := h2ReservedWords[n]; ok {
		return "`" + n + "`"
	}
	return n
}

// H2v2List converts identifiers through H2v2Name and joins with ", ".
func H2v2List(ks []string) string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = H2v2Name(k)
	}
	return strings.Join(out, ", ")
}

var sqlServerReservedWords = map[string]struct{}{
	"public": {},
	"user":   {},
}

// SQLServerName converts the identifier and wraps reserved words in
// brackets. Quoting can be suppressed for contexts that need the bare
// identifier, such as introspection queries.
func SQLServerName(k string, quote bool) string {
	n := ToSQLName(k)
	if !quote {
		return n
	}
	if _, ok := sqlServerReservedWords[strings.ToLower(n)]; ok {
		return "[" + n + "]"
	}
	return n
}

// SQLServerList converts identifiers through SQLServerName and joins with ", ".
func SQLServerList(ks []string, quote bool) string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = SQLServerName(k, quote)
	}
	return strings.Join(out, ", ")
}

var columnLengthSuffix = regexp.MustCompile(`\(\d+\)$`)

// StripLengthSuffix removes a trailing length suffix from a column name,
// e.g. "name(32)" becomes "name".
func StripLengthSuffix(k string) string {
	return columnLengthSuffix.ReplaceAllString(k, "")
}
