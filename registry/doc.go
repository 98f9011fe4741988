/*
Package registry manages the index maps that place PipeQueue records in the
shared table.

An index map associates a Go record type with its DynamoDB key templates.
Templates may reference record fields with {Field} macros:

	indexMap := map[string]string{
	    "PK": "QUEUE#{QueueName}",
	    "SK": "ITEM#{ID}",
	}
	registry.RegisterIndexMap[QueueItem](indexMap)

All three PipeQueue record shapes share one physical table; the partition-key
prefixes (QUEUE#, STATUS#) keep them apart. The registry is thread-safe and is
populated by storagemodels.RegisterIndexMaps during service construction.
*/
package registry
