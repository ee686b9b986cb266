package naming_test

import (
	"testing"

	"github.com/mickamy/heroes/internal/naming"
)

func TestCamelToSnake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"ID", "id"},
		{"Name", "name"},
		{"SecName", "sec_name"},
		{"TeamID", "team_id"},
		{"HTTPServer", "http_server"},
		{"teamMember", "team_member"},
		{"A", "a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := naming.CamelToSnake(tt.input)
			if got != tt.want {
				t.Errorf("CamelToSnake(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Team", "teams"},
		{"TeamMember", "team_members"},
		{"Category", "categories"},
		{"Person", "people"},
		{"Hero", "heroes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := naming.TableName(tt.input); got != tt.want {
				t.Errorf("TableName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRelationAlias(t *testing.T) {
	t.Parallel()

	if got := naming.RelationAlias("Team", "name"); got != "Team__name" {
		t.Errorf("RelationAlias = %q, want %q", got, "Team__name")
	}
}

func TestSnakeToCamel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"team":        "Team",
		"sec_name":    "SecName",
		"team_member": "TeamMember",
		"":            "",
	} {
		if got := naming.SnakeToCamel(in); got != want {
			t.Errorf("SnakeToCamel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRelationName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		table string
		many  bool
		want  string
	}{
		{"team", false, "Team"},
		{"hero", true, "Heroes"},
		{"hero", false, "Hero"},
		{"team_member", true, "TeamMembers"},
	}
	for _, tt := range tests {
		if got := naming.RelationName(tt.table, tt.many); got != tt.want {
			t.Errorf("RelationName(%q, %v) = %q, want %q", tt.table, tt.many, got, tt.want)
		}
	}
}
