/*
Package ddb provides the DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table layout shared by every PipeQueue record shape
  - Macro-based key expansion (e.g., "QUEUE#{queue_name}")
  - Conditional put/delete for create conflicts and dequeue races
  - Paged queries, counts, and scans with bounded retry
  - Batched partition deletes for queue teardown

Macro Expansion:
Keys use macros that are replaced with record attribute values at write time:

	indexMap := map[string]string{
	    "pk": "QUEUE#{queue_name}",   // Becomes "QUEUE#img-proc"
	    "sk": "ITEM#{id}",            // Becomes "ITEM#1712345678901_ab12cd34"
	}

Concurrency:
PutIfAbsent and DeleteIfPresent attach condition expressions
(attribute_not_exists / attribute_exists on pk), so racing writers are
serialized by the table itself. A ConditionalCheckFailedException surfaces as
errors.ErrConditionFailed for the caller to resolve, which is how competing
dequeues re-select the next oldest item.
*/
package ddb
