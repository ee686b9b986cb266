package orm_test

import (
	"testing"

	"github.com/mickamy/heroes/orm"
)

type TeamMember struct{}

type valueNamer struct{}

func (valueNamer) TableName() string { return "custom_values" }

type ptrNamer struct{}

func (*ptrNamer) TableName() string { return "custom_ptrs" }

func TestTableNameOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolve  func() string
		expected string
	}{
		{
			name:     "inferred when TableNamer not implemented",
			resolve:  orm.TableNameOf[TeamMember],
			expected: "team_members",
		},
		{
			name:     "value receiver",
			resolve:  orm.TableNameOf[valueNamer],
			expected: "custom_values",
		},
		{
			name:     "pointer receiver",
			resolve:  orm.TableNameOf[ptrNamer],
			expected: "custom_ptrs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.resolve(); got != tt.expected {
				t.Errorf("TableNameOf = %q, want %q", got, tt.expected)
			}
		})
	}
}
