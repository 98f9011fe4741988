/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/pipequeue/storagemodels"
)

const (
	// maxQueryRetries bounds the retry loop for throttled reads.
	maxQueryRetries = 3

	// batchDeleteSize is the DynamoDB BatchWriteItem limit.
	batchDeleteSize = 25
)

// Query returns the records of one partition in sort-key order.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	input := d.buildQueryInput(params)

	out, err := d.queryWithRetry(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	var results []T
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query results: %w", err)
	}
	return results, nil
}

// Count returns the number of records the equivalent Query would return,
// paging so the count stays exact past the 1 MB response limit.
func (d *DynamodbDataStore[T]) Count(ctx context.Context, params *storagemodels.QueryParams) (int, error) {
	input := d.buildQueryInput(params)
	input.Select = types.SelectCount

	total := 0
	for {
		out, err := d.queryWithRetry(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count query error: %w", err)
		}
		total += int(out.Count)

		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Scan returns every record of shape T across all partitions. The item_type
// discriminator keeps foreign shapes out of the unmarshal.
func (d *DynamodbDataStore[T]) Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error) {
	filter := "item_type = :it"
	exprVals := map[string]types.AttributeValue{
		":it": &types.AttributeValueMemberS{Value: params.ItemType},
	}
	if params.SortKey != "" {
		filter += " AND sk = :sk"
		exprVals[":sk"] = &types.AttributeValueMemberS{Value: params.SortKey}
	}

	input := &dynamodb.ScanInput{
		TableName:                 &d.tableName,
		FilterExpression:          &filter,
		ExpressionAttributeValues: exprVals,
	}

	var results []T
	for {
		out, err := d.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		var page []T
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan results: %w", err)
		}
		results = append(results, page...)

		if out.LastEvaluatedKey == nil {
			return results, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// DeleteAll removes every record under the given partition key in batches
// and reports how many records were actually found and removed.
func (d *DynamodbDataStore[T]) DeleteAll(ctx context.Context, partitionKey string) (int, error) {
	keys, err := d.queryAllKeys(ctx, partitionKey)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(keys); start += batchDeleteSize {
		end := start + batchDeleteSize
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		if err := d.batchDeleteWithRetry(ctx, requests); err != nil {
			return deleted, err
		}
		deleted += end - start
	}

	return deleted, nil
}

// queryAllKeys pages through a partition collecting pk/sk key pairs only.
func (d *DynamodbDataStore[T]) queryAllKeys(ctx context.Context, partitionKey string) ([]map[string]types.AttributeValue, error) {
	keyCond := "pk = :pk"
	projection := "pk, sk"
	input := &dynamodb.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: &keyCond,
		ProjectionExpression:   &projection,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: partitionKey},
		},
	}

	var keys []map[string]types.AttributeValue
	for {
		out, err := d.queryWithRetry(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("key query error: %w", err)
		}
		keys = append(keys, out.Items...)

		if out.LastEvaluatedKey == nil {
			return keys, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// buildQueryInput translates storage-agnostic query params into a DynamoDB
// query over the primary index.
func (d *DynamodbDataStore[T]) buildQueryInput(params *storagemodels.QueryParams) *dynamodb.QueryInput {
	keyCond := "pk = :pk"
	exprVals := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: params.PartitionKey},
	}
	if params.SortKeyPrefix != "" {
		keyCond += " AND begins_with(sk, :skp)"
		exprVals[":skp"] = &types.AttributeValueMemberS{Value: params.SortKeyPrefix}
	}

	return &dynamodb.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    &keyCond,
		ExpressionAttributeValues: exprVals,
		Limit:                     params.Limit,
		ScanIndexForward:          aws.Bool(!params.Descending),
	}
}

// queryWithRetry executes a query with bounded retries and linear backoff.
func (d *DynamodbDataStore[T]) queryWithRetry(ctx context.Context, input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= maxQueryRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", maxQueryRetries, lastErr)
}

// batchDeleteWithRetry issues one BatchWriteItem and re-drives unprocessed
// deletes, bounded like the read retries.
func (d *DynamodbDataStore[T]) batchDeleteWithRetry(ctx context.Context, requests []types.WriteRequest) error {
	pending := requests

	for attempt := 0; attempt <= maxQueryRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		out, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				d.tableName: pending,
			},
		})
		if err != nil {
			return fmt.Errorf("batch delete failed: %w", err)
		}

		remaining := out.UnprocessedItems[d.tableName]
		if len(remaining) == 0 {
			return nil
		}
		pending = remaining
	}

	return fmt.Errorf("batch delete left %d unprocessed records after %d retries", len(pending), maxQueryRetries)
}
