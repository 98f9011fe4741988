/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// IndexMapRegistry associates Go record types with their DynamoDB key templates.

var (
	indexMapRegistry = make(map[reflect.Type]map[string]string)
	mu               sync.RWMutex
)

// RegisterIndexMap associates a Go type T with a given key template map (PK, SK).
// Registering the same type again replaces the previous map, which keeps
// repeated setup calls in tests harmless.
func RegisterIndexMap[T any](idxMap map[string]string) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.Lock()
	defer mu.Unlock()
	indexMapRegistry[t] = idxMap
}

// GetIndexMap retrieves the index map for type T, if any.
func GetIndexMap[T any]() (map[string]string, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	m, ok := indexMapRegistry[t]
	return m, ok
}
