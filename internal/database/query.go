package database

// DBQuery is a named statement with optional per-dialect variants
type DBQuery struct {
	// ID identifies the statement in logs and metrics
	ID string
	// Query is the default statement in MySQL syntax
	Query string
	// SQLiteQuery replaces Query on SQLite when set
	SQLiteQuery string
}

// GetQuery returns the statement for dbType, falling back to the MySQL form
func (q DBQuery) GetQuery(dbType string) string {
	if dbType == TypeSQLite && q.SQLiteQuery != "" {
		return q.SQLiteQuery
	}
	return q.Query
}
