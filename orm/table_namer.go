package orm

import (
	"reflect"

	"github.com/mickamy/heroes/internal/naming"
)

// TableNamer can be implemented by model structs to override the
// auto-derived table name.
type TableNamer interface {
	TableName() string
}

// TableNameOf returns the table name for type T.
// If T implements TableNamer (value or pointer receiver), that name is used;
// otherwise the name is inferred from the type: "UserProfile" -> "user_profiles".
func TableNameOf[T any]() string {
	var zero T
	if tn, ok := any(&zero).(TableNamer); ok {
		return tn.TableName()
	}
	return naming.TableName(reflect.TypeOf(zero).Name())
}
