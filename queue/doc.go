/*
Package queue implements the FIFO job queue manager of the PipeQueue service.

Queues are named, durable, and ordered: within a queue, items are dequeued in
exactly the order they were enqueued. Ordering rides entirely on the item
ids, which carry a millisecond timestamp prefix and a same-instant tie-break,
so the storage layer's sort-key order is arrival order and no sequence
counter or lock is needed.

Dequeue is the one correctness-critical operation: the oldest item is read
and then removed with a conditional delete, so two concurrent dequeues can
never both receive the same item. The loser of the race transparently
re-selects the next oldest remaining item.

The manager is stateless between calls; all durable state lives in the
injected datastores.
*/
package queue
