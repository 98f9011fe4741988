/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// QueryParams defines parameters for a range query within one partition.
//
// The params are storage agnostic: the DynamoDB datastore translates them
// into a key condition expression, the in-memory datastore into a sorted
// prefix walk. Results are ordered by sort key, ascending unless Descending
// is set.
type QueryParams struct {
	// PartitionKey is the full partition key value, e.g. "QUEUE#img-proc".
	PartitionKey string

	// SortKeyPrefix optionally restricts results to sort keys with this
	// prefix, e.g. "ITEM#". Empty means every record in the partition.
	SortKeyPrefix string

	// Limit caps the number of returned records. Nil means no explicit cap.
	Limit *int32

	// Descending reverses the sort-key order (newest first).
	Descending bool
}

// ScanParams defines parameters for a whole-table scan.
//
// Scans are used only by the listing operations; the record discriminator
// keeps the result to one shape.
type ScanParams struct {
	// ItemType filters on the item_type attribute (ItemTypeQueue or
	// ItemTypeStatus).
	ItemType string

	// SortKey optionally filters on an exact sort key value, e.g. METADATA
	// to select only queue metadata records.
	SortKey string
}
