/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "github.com/aws/aws-sdk-go-v2/aws"

// QueryBuilder provides a fluent interface for building partition queries.
type QueryBuilder struct {
	params *QueryParams
}

// NewQuery creates a new query builder.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{params: &QueryParams{}}
}

// WithPartitionKey sets the partition key value.
func (q *QueryBuilder) WithPartitionKey(value string) *QueryBuilder {
	q.params.PartitionKey = value
	return q
}

// WithSortKeyPrefix restricts results to sort keys with the given prefix.
func (q *QueryBuilder) WithSortKeyPrefix(prefix string) *QueryBuilder {
	q.params.SortKeyPrefix = prefix
	return q
}

// WithLimit caps the number of returned records.
func (q *QueryBuilder) WithLimit(limit int32) *QueryBuilder {
	q.params.Limit = aws.Int32(limit)
	return q
}

// OldestFirst orders results ascending by sort key. This is the default.
func (q *QueryBuilder) OldestFirst() *QueryBuilder {
	q.params.Descending = false
	return q
}

// NewestFirst orders results descending by sort key.
func (q *QueryBuilder) NewestFirst() *QueryBuilder {
	q.params.Descending = true
	return q
}

// Build returns the assembled query parameters.
func (q *QueryBuilder) Build() *QueryParams {
	return q.params
}
