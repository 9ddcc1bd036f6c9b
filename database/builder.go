package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a small fluent API over bun for the handful of query
// shapes the stores need. Conditions are accumulated and applied to the
// concrete bun query when the builder is executed.
type QueryBuilder[T any] struct {
	db *DB

	wheres    []*whereClause
	orders    []string
	relations []string
	limitVal  *int

	timeout time.Duration
}

type whereClause struct {
	Column   string
	Operator string
	Value    any
}

// Query starts a new builder for model T.
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds an equality condition.
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a condition with an explicit operator ("=", ">", "<=", ...).
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &whereClause{Column: column, Operator: operator, Value: value})
	return q
}

// OrderBy adds an ORDER BY clause; direction is ASC or DESC.
func (q *QueryBuilder[T]) OrderBy(column, direction string) *QueryBuilder[T] {
	dir := strings.ToUpper(direction)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	q.orders = append(q.orders, fmt.Sprintf("%s %s", column, dir))
	return q
}

// Relation preloads a named bun relation on the result.
func (q *QueryBuilder[T]) Relation(name string) *QueryBuilder[T] {
	q.relations = append(q.relations, name)
	return q
}

// Limit caps the number of rows returned.
func (q *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	q.limitVal = &n
	return q
}

// WithTimeout bounds the execution of this query.
func (q *QueryBuilder[T]) WithTimeout(d time.Duration) *QueryBuilder[T] {
	q.timeout = d
	return q
}

func (q *QueryBuilder[T]) buildSelect(model *T) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	for _, w := range q.wheres {
		query = query.Where(fmt.Sprintf("%s %s ?", w.Column, w.Operator), w.Value)
	}
	for _, rel := range q.relations {
		query = query.Relation(rel)
	}
	for _, order := range q.orders {
		query = query.Order(order)
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}

	return query
}

func (q *QueryBuilder[T]) applyWheresToUpdate(query *bun.UpdateQuery) *bun.UpdateQuery {
	for _, w := range q.wheres {
		query = query.Where(fmt.Sprintf("%s %s ?", w.Column, w.Operator), w.Value)
	}
	return query
}

func (q *QueryBuilder[T]) applyWheresToDelete(query *bun.DeleteQuery) *bun.DeleteQuery {
	for _, w := range q.wheres {
		query = query.Where(fmt.Sprintf("%s %s ?", w.Column, w.Operator), w.Value)
	}
	return query
}
