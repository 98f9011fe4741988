/*
Package pipequeue provides a FIFO job queue and worker status service for
observatory PIPE processing machines, persisted in a single DynamoDB table.

The service has two independent sub-components over shared storage:

  - Queue Manager: named, durable FIFO queues for processing jobs. Items are
    dequeued in exactly the order they were enqueued; competing dequeues
    never receive the same item.
  - Status Registry: last-known-state tracking per named worker machine,
    overwritten on every update.

Basic Usage:

	svc, err := pipequeue.New(accessKey, secretKey, "us-east-1", "pipe-queue")
	if err != nil {
	    log.Fatal(err)
	}

	_, err = svc.Queues.CreateQueue(ctx, "img-proc")
	item, err := svc.Queues.Enqueue(ctx, "img-proc",
	    storagemodels.Document{"path": "a.fits"}, "site-ctrl-1")
	next, err := svc.Queues.Dequeue(ctx, "img-proc")

	_, err = svc.Statuses.SetStatus(ctx, "pipe-1", "online",
	    storagemodels.Document{"cpu": "10%"})

The server package exposes the same operations over HTTP; cmd/pipequeued is
the service binary.

All state lives in the table. Every operation is safe to issue from any
number of concurrent processes: create conflicts and dequeue races are
resolved by conditional writes inside the storage layer.
*/
package pipequeue
