/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides a shared in-memory table with typed views for
// tests and local development. It honors the same ordering and conditional
// semantics as the DynamoDB backend: sort-key ordered partitions,
// put-if-absent, and delete-if-present.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/suparena/pipequeue/errors"
	"github.com/suparena/pipequeue/registry"
	"github.com/suparena/pipequeue/storagemodels"
)

// row is one stored record.
type row struct {
	itemType string
	value    any
}

// Table is an in-memory stand-in for the shared (pk, sk) table. All typed
// views created by View share it, the way typed DynamoDB stores share one
// client and table name.
type Table struct {
	mu   sync.Mutex
	rows map[string]map[string]row // pk -> sk -> row
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		rows: make(map[string]map[string]row),
	}
}

// Store is a typed view over a shared Table for record shape T. It
// implements datastore.DataStore[T].
type Store[T any] struct {
	table *Table
}

// View returns a typed view over the shared table.
func View[T any](t *Table) *Store[T] {
	return &Store[T]{table: t}
}

// GetOne retrieves a record by its derived key.
func (s *Store[T]) GetOne(ctx context.Context, keyInput any) (*T, error) {
	pk, sk, keyStr, err := deriveKey[T](keyInput)
	if err != nil {
		return nil, err
	}

	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	if r, ok := s.table.rows[pk][sk]; ok {
		if v, ok := r.value.(T); ok {
			return &v, nil
		}
	}

	var zero T
	return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), keyStr)
}

// Put stores the record, replacing any existing record under the same key.
func (s *Store[T]) Put(ctx context.Context, entity T) error {
	pk, sk, err := entityKey(entity)
	if err != nil {
		return err
	}

	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	s.insert(pk, sk, entity)
	return nil
}

// PutIfAbsent stores the record only when the key is unoccupied.
func (s *Store[T]) PutIfAbsent(ctx context.Context, entity T) error {
	pk, sk, err := entityKey(entity)
	if err != nil {
		return err
	}

	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	if _, exists := s.table.rows[pk][sk]; exists {
		return errors.NewConditionFailedError("put", "attribute_not_exists(pk)")
	}
	s.insert(pk, sk, entity)
	return nil
}

// Query returns the records of one partition in sort-key order.
func (s *Store[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	matches := s.matchingValues(params)

	if params.Limit != nil && int32(len(matches)) > *params.Limit {
		matches = matches[:*params.Limit]
	}
	return matches, nil
}

// Count returns the number of records the equivalent unlimited Query would
// return.
func (s *Store[T]) Count(ctx context.Context, params *storagemodels.QueryParams) (int, error) {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	unlimited := *params
	unlimited.Limit = nil
	return len(s.matchingValues(&unlimited)), nil
}

// Scan returns every record of shape T across all partitions.
func (s *Store[T]) Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error) {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	var results []T
	for _, partition := range s.table.rows {
		for sk, r := range partition {
			if r.itemType != params.ItemType {
				continue
			}
			if params.SortKey != "" && sk != params.SortKey {
				continue
			}
			if v, ok := r.value.(T); ok {
				results = append(results, v)
			}
		}
	}
	return results, nil
}

// Delete removes a record if present; absence is not an error.
func (s *Store[T]) Delete(ctx context.Context, keyInput any) error {
	pk, sk, _, err := deriveKey[T](keyInput)
	if err != nil {
		return err
	}

	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	s.remove(pk, sk)
	return nil
}

// DeleteIfPresent removes a record only if it still exists.
func (s *Store[T]) DeleteIfPresent(ctx context.Context, keyInput any) error {
	pk, sk, _, err := deriveKey[T](keyInput)
	if err != nil {
		return err
	}

	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	if _, exists := s.table.rows[pk][sk]; !exists {
		return errors.NewConditionFailedError("delete", "attribute_exists(pk)")
	}
	s.remove(pk, sk)
	return nil
}

// DeleteAll removes every record under the partition key, whatever its
// shape, and reports how many were removed. This mirrors the cascading
// partition delete used for queue teardown.
func (s *Store[T]) DeleteAll(ctx context.Context, partitionKey string) (int, error) {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	n := len(s.table.rows[partitionKey])
	delete(s.table.rows, partitionKey)
	return n, nil
}

// insert and remove assume the table lock is held.

func (s *Store[T]) insert(pk, sk string, entity T) {
	partition, ok := s.table.rows[pk]
	if !ok {
		partition = make(map[string]row)
		s.table.rows[pk] = partition
	}
	partition[sk] = row{itemType: itemTypeOf(entity), value: entity}
}

func (s *Store[T]) remove(pk, sk string) {
	partition, ok := s.table.rows[pk]
	if !ok {
		return
	}
	delete(partition, sk)
	if len(partition) == 0 {
		delete(s.table.rows, pk)
	}
}

// matchingValues collects the partition's records of shape T in sort-key
// order, honoring the prefix and direction. Assumes the table lock is held.
func (s *Store[T]) matchingValues(params *storagemodels.QueryParams) []T {
	partition := s.table.rows[params.PartitionKey]

	sks := make([]string, 0, len(partition))
	for sk, r := range partition {
		if params.SortKeyPrefix != "" && !strings.HasPrefix(sk, params.SortKeyPrefix) {
			continue
		}
		if _, ok := r.value.(T); !ok {
			continue
		}
		sks = append(sks, sk)
	}
	sort.Strings(sks)
	if params.Descending {
		for i, j := 0, len(sks)-1; i < j; i, j = i+1, j-1 {
			sks[i], sks[j] = sks[j], sks[i]
		}
	}

	values := make([]T, 0, len(sks))
	for _, sk := range sks {
		values = append(values, partition[sk].value.(T))
	}
	return values
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// entityKey derives pk/sk from the record itself via its index map.
func entityKey[T any](entity T) (pk, sk string, err error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return "", "", errors.ErrNoIndexMap
	}
	expanded := expandMacros(indexMap, entity)
	return keysFromExpanded(expanded)
}

// deriveKey resolves a key input the same way the DynamoDB store does: a
// string expands every macro with the same value, a struct resolves each
// macro against its attributes.
func deriveKey[T any](keyInput any) (pk, sk, keyStr string, err error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return "", "", "", errors.ErrNoIndexMap
	}

	var expanded map[string]string
	switch k := keyInput.(type) {
	case string:
		keyStr = k
		expanded = make(map[string]string, len(indexMap))
		for field, template := range indexMap {
			// Substitute literally so "$" in a name is not read as a
			// capture-group reference.
			expanded[field] = macroPattern.ReplaceAllStringFunc(template, func(string) string {
				return k
			})
		}
	default:
		keyStr = fmt.Sprintf("%v", keyInput)
		expanded = expandMacros(indexMap, keyInput)
	}

	pk, sk, err = keysFromExpanded(expanded)
	return pk, sk, keyStr, err
}

func keysFromExpanded(expanded map[string]string) (string, string, error) {
	pk, sk := expanded["pk"], expanded["sk"]
	if pk == "" || sk == "" {
		return "", "", fmt.Errorf("expanded index map missing valid pk or sk")
	}
	return pk, sk, nil
}

// expandMacros resolves {field} macros against the input's attribute names,
// using reflection instead of the DynamoDB marshaler so this backend stays
// SDK-free on the write path.
func expandMacros(indexMap map[string]string, input any) map[string]string {
	attrs := attributeValues(input)

	res := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		res[field] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			return attrs[strings.Trim(macro, "{}")]
		})
	}
	return res
}

// attributeValues maps persisted attribute names (dynamodbav tags, falling
// back to field names) to their scalar string values.
func attributeValues(input any) map[string]string {
	v := reflect.ValueOf(input)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	attrs := make(map[string]string)
	if v.Kind() != reflect.Struct {
		return attrs
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Name
		if tag := field.Tag.Get("dynamodbav"); tag != "" {
			name = strings.Split(tag, ",")[0]
		}
		if name == "-" {
			continue
		}

		switch fv := v.Field(i); fv.Kind() {
		case reflect.String:
			attrs[name] = fv.String()
		case reflect.Int, reflect.Int32, reflect.Int64:
			attrs[name] = strconv.FormatInt(fv.Int(), 10)
		case reflect.Bool:
			attrs[name] = strconv.FormatBool(fv.Bool())
		}
	}
	return attrs
}

// itemTypeOf reads the record's item_type discriminator attribute.
func itemTypeOf(entity any) string {
	return attributeValues(entity)["item_type"]
}
