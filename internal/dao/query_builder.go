package dao

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles a SELECT with AND-ed conditions, ordering and paging
type QueryBuilder struct {
	baseQuery  string
	conditions []string
	args       []interface{}
	orderBy    string
	limit      int
	offset     int
}

// NewQueryBuilder starts a query from a SELECT ... FROM clause
func NewQueryBuilder(baseQuery string) *QueryBuilder {
	return &QueryBuilder{baseQuery: baseQuery}
}

// AddCondition adds a WHERE condition
func (qb *QueryBuilder) AddCondition(condition string, args ...interface{}) *QueryBuilder {
	qb.conditions = append(qb.conditions, condition)
	qb.args = append(qb.args, args...)
	return qb
}

// AddIn adds a column IN (...) condition; empty values add nothing
func (qb *QueryBuilder) AddIn(column string, values []string) *QueryBuilder {
	if len(values) == 0 {
		return qb
	}
	placeholders := strings.Repeat("?,", len(values)-1) + "?"
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return qb.AddCondition(fmt.Sprintf("%s IN (%s)", column, placeholders), args...)
}

// OrderBy sets the ORDER BY clause
func (qb *QueryBuilder) OrderBy(orderBy string) *QueryBuilder {
	qb.orderBy = orderBy
	return qb
}

// Page sets LIMIT and OFFSET; a non-positive limit disables paging
func (qb *QueryBuilder) Page(limit, offset int) *QueryBuilder {
	qb.limit = limit
	qb.offset = offset
	return qb
}

// Where returns the WHERE clause and its args
func (qb *QueryBuilder) Where() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// Build builds the final query
func (qb *QueryBuilder) Build() (string, []interface{}) {
	where, args := qb.Where()
	query := qb.baseQuery + where
	if qb.orderBy != "" {
		query += " ORDER BY " + qb.orderBy
	}
	if qb.limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(append([]interface{}{}, args...), qb.limit, qb.offset)
	}
	return query, args
}
