package sqlserver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
)

// MySQL-flavored type tokens remapped to their SQL Server equivalents.
var tokenMap = map[string]string{
	"auto_increment": "identity",
	"blob":           "varbinary(max)",
	"longblob":       "varbinary(max)",
	"boolean":        "bit",
	"tinyint(1)":     "bit",
	"text":           "varchar(max)",
	"longtext":       "varchar(max)",
	"mediumtext":     "varchar(max)",
	"shorttext":      "varchar(max)",
	"timestamp":      "datetime",
	"double":         "float",
}

var (
	intSized      = regexp.MustCompile(`(?i)^int\(\d+\)$`)
	tinyintSized  = regexp.MustCompile(`(?i)^tinyint\(\d+\)$`)
	charsetToken  = regexp.MustCompile(`(?i)^character\s+set\b`)
	collateToken  = regexp.MustCompile(`(?i)^collate\b`)
	enumToken     = regexp.MustCompile(`(?i)^enum\((.+)\)$`)
	varbinarySize = regexp.MustCompile(`(?i)^varbinary\((\d+)\)$`)
	enumValue     = regexp.MustCompile(`'((?:[^']|'')*)'`)
)

// sanitizeColumn rewrites a column spec token by token. The column name is
// needed for the ENUM expansion, which becomes a CHECK constraint on the
// column.
func sanitizeColumn(col command.Column) command.Column {
	out := command.Column{Name: col.Name}
	for _, tok := range col.Spec {
		rewritten, keep := rewriteToken(tok, name(col.Name))
		if keep {
			out.Spec = append(out.Spec, rewritten)
		}
	}
	return out
}

func rewriteToken(tok, columnName string) (string, bool) {
	trimmed := strings.TrimSpace(tok)
	lower := strings.ToLower(trimmed)

	if mapped, ok := tokenMap[lower]; ok {
		return mapped, true
	}
	if charsetToken.MatchString(trimmed) || collateToken.MatchString(trimmed) {
		return "", false
	}
	if intSized.MatchString(trimmed) {
		return "int", true
	}
	if tinyintSized.MatchString(trimmed) {
		return "tinyint", true
	}
	if m := enumToken.FindStringSubmatch(trimmed); m != nil {
		return expandEnum(m[1], columnName), true
	}
	if m := varbinarySize.FindStringSubmatch(trimmed); m != nil {
		var n int
		if _, err := fmt.Sscanf(m[1], "%d", &n); err == nil && n > 8000 {
			return "varbinary(max)", true
		}
	}
	return tok, true
}

// expandEnum turns ENUM('a','b') into VARCHAR(L) CHECK (col IN('a','b'))
// where L is the longest listed value.
func expandEnum(inner, columnName string) string {
	maxLen := 0
	for _, m := range enumValue.FindAllStringSubmatch(inner, -1) {
		if l := len(m[1]); l > maxLen {
			maxLen = l
		}
	}
	return fmt.Sprintf("VARCHAR(%d) CHECK (%s IN(%s))", maxLen, columnName, inner)
}
