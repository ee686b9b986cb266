package model

import (
	"fmt"
	"strings"
)

// Team groups heroes. A team has zero or more heroes.
type Team struct {
	ID   int    `db:"id,primaryKey" json:"id" yaml:"id"`
	Name string `db:"name" json:"name" yaml:"name"`

	// Heroes is populated only by the "Heroes" preloader.
	Heroes []Hero `db:"-" json:"heroes,omitempty" yaml:"heroes,omitempty"`
}

func (Team) TableName() string { return "team" }

func (t Team) String() string {
	s := fmt.Sprintf("id=%d name=%s", t.ID, quote(t.Name))
	if len(t.Heroes) == 0 {
		return s
	}
	names := make([]string, len(t.Heroes))
	for i, h := range t.Heroes {
		names[i] = quote(h.Name)
	}
	return s + " heroes=[" + strings.Join(names, ", ") + "]"
}
