/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Record type discriminator values, persisted on every record as item_type.
// The values predate this service and must not change: the production table
// already holds records tagged with them.
const (
	ItemTypeQueue  = "QUEUE_ITEM"
	ItemTypeStatus = "STATUS_ITEM"
)

// Sort key literals for the singleton records of a partition.
const (
	MetadataSK = "METADATA"
	InfoSK     = "INFO"
)

// Document is an opaque caller-defined structured value. The service stores
// and returns it unmodified; it never inspects individual fields.
type Document map[string]interface{}

// QueueItem is one unit of work in a named queue.
//
// Persisted under pk QUEUE#<queue_name>, sk ITEM#<id>. The id is timestamp
// prefixed so that ascending sort-key order equals arrival order.
type QueueItem struct {
	// ID is <epoch-millis>_<suffix>; lexicographic order of IDs within a
	// queue is FIFO order.
	ID string `json:"id" dynamodbav:"id"`

	QueueName string `json:"queue_name" dynamodbav:"queue_name"`

	ItemType string `json:"item_type" dynamodbav:"item_type"`

	// Payload is the caller's job description, stored opaquely.
	Payload Document `json:"payload" dynamodbav:"payload"`

	// CreatedAt is epoch milliseconds.
	CreatedAt int64 `json:"created_at" dynamodbav:"created_at"`

	// Sender identifies the origin of the item, e.g. a site controller name.
	Sender string `json:"sender" dynamodbav:"sender"`
}

// QueueMetadata marks a queue as existing. Items can only be enqueued while
// this record is present.
//
// Persisted under pk QUEUE#<queue_name>, sk METADATA.
type QueueMetadata struct {
	QueueName string `json:"queue_name" dynamodbav:"queue_name"`
	ItemType  string `json:"item_type" dynamodbav:"item_type"`

	// CreatedAt is epoch milliseconds.
	CreatedAt int64 `json:"created_at" dynamodbav:"created_at"`
}

// PipeStatus is the last-known state snapshot for one PIPE worker machine.
// Writing a status replaces the previous one; no history is kept.
//
// Persisted under pk STATUS#<pipe_id>, sk INFO.
type PipeStatus struct {
	PipeID   string `json:"pipe_id" dynamodbav:"pipe_id"`
	ItemType string `json:"item_type" dynamodbav:"item_type"`

	// Status is caller-defined vocabulary ("online", "offline", "busy", ...).
	Status string `json:"status" dynamodbav:"status"`

	// LastUpdated is epoch milliseconds.
	LastUpdated int64 `json:"last_updated" dynamodbav:"last_updated"`

	// Details is an opaque caller-defined structured value.
	Details Document `json:"details" dynamodbav:"details"`
}

// QueuePK returns the partition key value for a named queue.
func QueuePK(queueName string) string {
	return "QUEUE#" + queueName
}

// ItemSK returns the sort key value for a queue item id.
func ItemSK(id string) string {
	return "ITEM#" + id
}

// ItemSKPrefix is the sort key prefix shared by all queue items.
const ItemSKPrefix = "ITEM#"

// StatusPK returns the partition key value for a PIPE worker identity.
func StatusPK(pipeID string) string {
	return "STATUS#" + pipeID
}
