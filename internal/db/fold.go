package db

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// casefold(x) is available on every connection. SQLite's built-in LOWER
// only folds ASCII, so text searches use casefold on both sides instead.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		// NULL and numbers pass through.
		return v, nil
	}
}

// Fold returns the Unicode case-folded form of s, as casefold does in SQL.
func Fold(s string) string {
	return cases.Fold().String(s)
}
