package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

func init() {
	// The default rules give "heros".
	inflection.AddIrregular("hero", "heroes")
}

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "TeamID" → "team_id", "SecName" → "sec_name".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			next := rune(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TableName infers a snake_case plural table name from a Go type name.
// e.g. "Team" -> "teams", "TeamMember" -> "team_members"
func TableName(typeName string) string {
	return inflection.Plural(CamelToSnake(typeName))
}

// SnakeToCamel converts a snake_case string to CamelCase: "sec_name" → "SecName".
func SnakeToCamel(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// RelationName is the name a relation to table is registered under: the
// camel-cased table name, pluralized when the relation has many rows.
//
//	RelationName("team", false) == "Team"
//	RelationName("hero", true)  == "Heroes"
func RelationName(table string, many bool) string {
	if many {
		table = inflection.Plural(table)
	}
	return SnakeToCamel(table)
}

// RelationAlias returns the column alias prefix used for columns selected
// through a named join: RelationAlias("Team", "id") == "Team__id".
func RelationAlias(relation, column string) string {
	return relation + "__" + column
}
