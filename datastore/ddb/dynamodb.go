/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	goerrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/pipequeue/errors"
	"github.com/suparena/pipequeue/registry"
)

// DynamodbDataStore implements datastore.DataStore[T] over one DynamoDB
// table shared by every record shape of the service.
type DynamodbDataStore[T any] struct {
	client    *sdk.Client
	tableName string
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// NewDynamoDBClient initializes a DynamoDB client. When the static key pair
// is empty, the default AWS credential chain is used instead.
func NewDynamoDBClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if awsAccessKey != "" && awsSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg), nil
}

// NewDynamodbDataStore constructs a typed store for record shape T on top of
// an existing client. All stores of one service share the client and table.
func NewDynamodbDataStore[T any](client *sdk.Client, tableName string) *DynamodbDataStore[T] {
	return &DynamodbDataStore[T]{
		client:    client,
		tableName: tableName,
	}
}

// GetOne retrieves a single record using the index map registered for T.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, keyInput any) (*T, error) {
	keyMap, keyStr, err := d.buildKey(keyInput)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		var zero T
		return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), keyStr)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores the given record, expanding the {field} macros of T's index map
// into the pk/sk attributes.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	av, err := d.marshalWithKeys(entity)
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// PutIfAbsent stores the record only when no record exists under the same
// key. The condition runs inside DynamoDB, so two racing creators cannot
// both succeed.
func (d *DynamodbDataStore[T]) PutIfAbsent(ctx context.Context, entity T) error {
	av, err := d.marshalWithKeys(entity)
	if err != nil {
		return err
	}

	condition := "attribute_not_exists(pk)"
	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &d.tableName,
		Item:                av,
		ConditionExpression: &condition,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if goerrors.As(err, &cfe) {
			return errors.NewConditionFailedError("put", condition)
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Delete removes a record. Removing an absent record succeeds.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, keyInput any) error {
	keyMap, _, err := d.buildKey(keyInput)
	if err != nil {
		return err
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// DeleteIfPresent removes a record only if it still exists at deletion time.
// A conditional failure means a concurrent caller removed it first.
func (d *DynamodbDataStore[T]) DeleteIfPresent(ctx context.Context, keyInput any) error {
	keyMap, _, err := d.buildKey(keyInput)
	if err != nil {
		return err
	}

	condition := "attribute_exists(pk)"
	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &d.tableName,
		Key:                 keyMap,
		ConditionExpression: &condition,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if goerrors.As(err, &cfe) {
			return errors.NewConditionFailedError("delete", condition)
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// marshalWithKeys marshals the entity and injects the expanded pk/sk
// attributes from T's index map.
func (d *DynamodbDataStore[T]) marshalWithKeys(entity T) (map[string]types.AttributeValue, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return nil, errors.ErrNoIndexMap
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	expanded, err := expandMacros(indexMap, entity)
	if err != nil {
		return nil, err
	}

	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	return av, nil
}

// buildKey derives the pk/sk key attributes from the key input. A string
// input expands every macro with the same value; a struct input resolves
// each macro against its marshaled attributes.
func (d *DynamodbDataStore[T]) buildKey(keyInput any) (map[string]types.AttributeValue, string, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return nil, "", errors.ErrNoIndexMap
	}

	var expanded map[string]string
	var err error
	var keyStr string

	switch k := keyInput.(type) {
	case string:
		keyStr = k
		expanded = expandStringKey(indexMap, k)
	default:
		keyStr = fmt.Sprintf("%v", keyInput)
		expanded, err = expandMacros(indexMap, keyInput)
		if err != nil {
			return nil, "", err
		}
	}

	keyMap, err := buildKeyFromExpanded(expanded)
	if err != nil {
		return nil, "", err
	}
	return keyMap, keyStr, nil
}

// expandMacros resolves {field} macros in the index map templates against
// the marshaled attributes of keysInput.
func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))

	for fieldName, template := range indexMap {
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				return ""
			}
		})
		res[fieldName] = expanded
	}

	return res, nil
}

// expandStringKey replaces every macro occurrence in the templates with the
// provided key. It only suits index maps whose templates reference a single
// field (queue metadata, pipe status). The key is substituted literally;
// names are opaque, so "$" must not be read as a capture-group reference.
func expandStringKey(indexMap map[string]string, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllStringFunc(template, func(string) string {
			return key
		})
	}
	return expanded
}

// buildKeyFromExpanded builds the DynamoDB key from the expanded index map.
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["pk"]
	sk, okSK := expanded["sk"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid pk or sk")
	}

	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}, nil
}
