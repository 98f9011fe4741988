/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/pipequeue/storagemodels"
)

func TestExpandMacrosFromStruct(t *testing.T) {
	indexMap := map[string]string{
		"pk": "QUEUE#{queue_name}",
		"sk": "ITEM#{id}",
	}
	item := storagemodels.QueueItem{
		ID:        "1756600000000_0000abcd1234",
		QueueName: "image-processing",
		ItemType:  storagemodels.ItemTypeQueue,
		CreatedAt: 1756600000000,
	}

	expanded, err := expandMacros(indexMap, item)
	if err != nil {
		t.Fatalf("expandMacros failed: %v", err)
	}
	if expanded["pk"] != "QUEUE#image-processing" {
		t.Errorf("expected pk QUEUE#image-processing, got %q", expanded["pk"])
	}
	if expanded["sk"] != "ITEM#1756600000000_0000abcd1234" {
		t.Errorf("expected sk ITEM#<id>, got %q", expanded["sk"])
	}
}

func TestExpandMacrosMissingField(t *testing.T) {
	indexMap := map[string]string{
		"pk": "QUEUE#{nonexistent}",
		"sk": "METADATA",
	}

	expanded, err := expandMacros(indexMap, storagemodels.QueueMetadata{QueueName: "q"})
	if err != nil {
		t.Fatalf("expandMacros failed: %v", err)
	}
	// An unresolvable macro expands to the empty string and is rejected
	// later by buildKeyFromExpanded.
	if expanded["pk"] != "QUEUE#" {
		t.Errorf("expected QUEUE# with empty macro, got %q", expanded["pk"])
	}
	if _, err := buildKeyFromExpanded(map[string]string{"pk": "", "sk": "METADATA"}); err == nil {
		t.Error("expected error for empty pk")
	}
}

func TestExpandStringKey(t *testing.T) {
	indexMap := map[string]string{
		"pk": "STATUS#{pipe_id}",
		"sk": storagemodels.InfoSK,
	}

	expanded := expandStringKey(indexMap, "pipe-7")
	if expanded["pk"] != "STATUS#pipe-7" {
		t.Errorf("expected STATUS#pipe-7, got %q", expanded["pk"])
	}
	if expanded["sk"] != storagemodels.InfoSK {
		t.Errorf("macro-free template must pass through, got %q", expanded["sk"])
	}

	t.Run("LiteralDollarSign", func(t *testing.T) {
		// Names are opaque; "$1" must be inserted literally, not read as
		// a capture-group reference.
		expanded := expandStringKey(indexMap, "pipe$1b")
		if expanded["pk"] != "STATUS#pipe$1b" {
			t.Errorf("expected STATUS#pipe$1b, got %q", expanded["pk"])
		}
	})
}

func TestBuildKeyFromExpanded(t *testing.T) {
	keyMap, err := buildKeyFromExpanded(map[string]string{
		"pk": "QUEUE#q1",
		"sk": "METADATA",
	})
	if err != nil {
		t.Fatalf("buildKeyFromExpanded failed: %v", err)
	}

	pk, ok := keyMap["pk"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "QUEUE#q1" {
		t.Errorf("unexpected pk attribute: %+v", keyMap["pk"])
	}
	sk, ok := keyMap["sk"].(*types.AttributeValueMemberS)
	if !ok || sk.Value != "METADATA" {
		t.Errorf("unexpected sk attribute: %+v", keyMap["sk"])
	}

	t.Run("MissingSortKey", func(t *testing.T) {
		if _, err := buildKeyFromExpanded(map[string]string{"pk": "QUEUE#q1"}); err == nil {
			t.Error("expected error when sk is missing")
		}
	})
}

func TestBuildQueryInput(t *testing.T) {
	store := &DynamodbDataStore[storagemodels.QueueItem]{tableName: "pipe-queue"}

	t.Run("PartitionOnly", func(t *testing.T) {
		input := store.buildQueryInput(&storagemodels.QueryParams{
			PartitionKey: "QUEUE#q1",
		})
		if *input.KeyConditionExpression != "pk = :pk" {
			t.Errorf("unexpected key condition %q", *input.KeyConditionExpression)
		}
		if !*input.ScanIndexForward {
			t.Error("default order must be ascending")
		}
		if input.Limit != nil {
			t.Errorf("expected no limit, got %v", *input.Limit)
		}
	})

	t.Run("PrefixDescendingLimited", func(t *testing.T) {
		limit := int32(1)
		input := store.buildQueryInput(&storagemodels.QueryParams{
			PartitionKey:  "QUEUE#q1",
			SortKeyPrefix: storagemodels.ItemSKPrefix,
			Limit:         &limit,
			Descending:    true,
		})
		if *input.KeyConditionExpression != "pk = :pk AND begins_with(sk, :skp)" {
			t.Errorf("unexpected key condition %q", *input.KeyConditionExpression)
		}
		skp, ok := input.ExpressionAttributeValues[":skp"].(*types.AttributeValueMemberS)
		if !ok || skp.Value != storagemodels.ItemSKPrefix {
			t.Errorf("unexpected :skp value %+v", input.ExpressionAttributeValues[":skp"])
		}
		if *input.ScanIndexForward {
			t.Error("descending query must clear ScanIndexForward")
		}
		if input.Limit == nil || *input.Limit != 1 {
			t.Errorf("expected limit 1, got %v", input.Limit)
		}
	})
}

func TestMarshalWithKeysInjectsAttributes(t *testing.T) {
	storagemodels.RegisterIndexMaps()

	store := &DynamodbDataStore[storagemodels.PipeStatus]{tableName: "pipe-queue"}
	record := storagemodels.PipeStatus{
		PipeID:      "pipe-3",
		ItemType:    storagemodels.ItemTypeStatus,
		Status:      "idle",
		LastUpdated: 1756600000000,
	}

	av, err := store.marshalWithKeys(record)
	if err != nil {
		t.Fatalf("marshalWithKeys failed: %v", err)
	}

	pk, ok := av["pk"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "STATUS#pipe-3" {
		t.Errorf("unexpected pk %+v", av["pk"])
	}
	sk, ok := av["sk"].(*types.AttributeValueMemberS)
	if !ok || sk.Value != storagemodels.InfoSK {
		t.Errorf("unexpected sk %+v", av["sk"])
	}
	it, ok := av["item_type"].(*types.AttributeValueMemberS)
	if !ok || it.Value != storagemodels.ItemTypeStatus {
		t.Errorf("unexpected item_type %+v", av["item_type"])
	}
}
