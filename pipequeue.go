/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pipequeue

import (
	"fmt"

	"github.com/suparena/pipequeue/datastore"
	"github.com/suparena/pipequeue/datastore/ddb"
	"github.com/suparena/pipequeue/queue"
	"github.com/suparena/pipequeue/status"
	"github.com/suparena/pipequeue/storagemodels"
)

// Service bundles the two sub-components of PipeQueue. They share one table
// but are otherwise independent; there is no coupling between queues and
// statuses beyond storage.
type Service struct {
	Queues   *queue.Manager
	Statuses *status.Registry
}

// New constructs a Service backed by DynamoDB. An empty key pair selects the
// default AWS credential chain.
func New(awsAccessKey, awsSecretKey, awsRegion, tableName string) (*Service, error) {
	if tableName == "" {
		return nil, fmt.Errorf("table name must not be empty")
	}

	client, err := ddb.NewDynamoDBClient(awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	storagemodels.RegisterIndexMaps()

	return NewWithStores(
		ddb.NewDynamodbDataStore[storagemodels.QueueMetadata](client, tableName),
		ddb.NewDynamodbDataStore[storagemodels.QueueItem](client, tableName),
		ddb.NewDynamodbDataStore[storagemodels.PipeStatus](client, tableName),
	), nil
}

// NewWithStores constructs a Service over explicit typed stores. All three
// must be views of the same table. This is the entry point for alternative
// backends, such as the in-memory table used in tests.
func NewWithStores(
	metadata datastore.DataStore[storagemodels.QueueMetadata],
	items datastore.DataStore[storagemodels.QueueItem],
	statuses datastore.DataStore[storagemodels.PipeStatus],
) *Service {
	return &Service{
		Queues:   queue.NewManager(metadata, items),
		Statuses: status.NewRegistry(statuses),
	}
}
