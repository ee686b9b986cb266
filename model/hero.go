// Package model declares the hero and team records and the query
// factories the repositories build on.
package model

import (
	"fmt"
	"strconv"
)

// Hero is a row of the hero table. Age and TeamID are nullable.
type Hero struct {
	ID      int    `db:"id,primaryKey" json:"id" yaml:"id"`
	Name    string `db:"name" json:"name" yaml:"name"`
	SecName string `db:"sec_name" json:"sec_name" yaml:"sec_name"`
	Age     *int   `db:"age" json:"age" yaml:"age"`
	TeamID  *int   `db:"team_id" json:"team_id" yaml:"team_id"`

	// Team is populated by the "Team" join or preloader; nil means the hero
	// has no team, or the relation was not loaded. It is left out of encoded
	// output since navigated teams point back at their heroes.
	Team *Team `db:"-" json:"-" yaml:"-"`
}

func (Hero) TableName() string { return "hero" }

func (h Hero) String() string {
	return fmt.Sprintf("name=%s sec_name=%s age=%s team_id=%s id=%d",
		quote(h.Name), quote(h.SecName), optional(h.Age), optional(h.TeamID), h.ID)
}

func quote(s string) string { return "'" + s + "'" }

func optional(v *int) string {
	if v == nil {
		return "None"
	}
	return strconv.Itoa(*v)
}

// Int returns a pointer to v, for the nullable columns.
func Int(v int) *int { return &v }
