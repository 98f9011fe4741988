/*
Package storagemodels defines the record shapes persisted in the PipeQueue
table and the parameter types shared by the storage backends.

All records live in one table keyed by (pk, sk) string attributes. Three
shapes share it, told apart by partition-key prefix and the item_type
discriminator:

	QueueItem      pk QUEUE#<queue_name>  sk ITEM#<id>
	QueueMetadata  pk QUEUE#<queue_name>  sk METADATA
	PipeStatus     pk STATUS#<pipe_id>    sk INFO

Attribute names and timestamp encoding (epoch milliseconds) match the
pre-existing production table, so this module can read and write records
created by earlier deployments.

QueryParams describes a sort-key range read within a partition; ScanParams
describes a table scan filtered by record shape. Both are storage agnostic
and are honored identically by the DynamoDB and in-memory datastores.
*/
package storagemodels
