/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/storagemodels"
)

// Store implements datastore.Store using AWS DynamoDB as the underlying
// data store. Each model table name maps to a physical DynamoDB table.
//
// DynamoDB has no multi-row UPDATE and no cross-table comparison, so
// BulkUpdate scans for matching keys and updates items one by one, and
// FindMismatches compares against canonical usernames fetched once per
// distinct user. Both deviations are invisible through the interface.
type Store struct {
	client *sdk.Client

	usersTable   string
	idAttr       string
	usernameAttr string

	// key attribute per model table; defaults to "id"
	keyAttrs map[string]string

	log *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation reporting.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithUsersTable overrides the canonical user table and its attributes.
func WithUsersTable(table, idAttr, usernameAttr string) Option {
	return func(s *Store) {
		s.usersTable = table
		s.idAttr = idAttr
		s.usernameAttr = usernameAttr
	}
}

// WithKeyAttribute overrides the key attribute for one model table.
func WithKeyAttribute(table, attr string) Option {
	return func(s *Store) {
		s.keyAttrs[table] = attr
	}
}

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New constructs a Store around an existing DynamoDB client.
func New(client *sdk.Client, opts ...Option) *Store {
	s := &Store{
		client:       client,
		usersTable:   "users",
		idAttr:       "id",
		usernameAttr: "username",
		keyAttrs:     make(map[string]string),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveUser fetches the canonical user item by id.
func (s *Store) ResolveUser(ctx context.Context, userID string) (*storagemodels.UserRecord, error) {
	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.usersTable,
		Key: map[string]types.AttributeValue{
			s.idAttr: &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	return s.unmarshalUser(out.Item)
}

// unmarshalUser decodes a user item. Custom attribute names configured via
// WithUsersTable are remapped onto the record's canonical tags first.
func (s *Store) unmarshalUser(item map[string]types.AttributeValue) (*storagemodels.UserRecord, error) {
	if s.idAttr != "id" {
		if v, ok := item[s.idAttr]; ok {
			item["id"] = v
		}
	}
	if s.usernameAttr != "username" {
		if v, ok := item[s.usernameAttr]; ok {
			item["username"] = v
		}
	}

	var user storagemodels.UserRecord
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user item: %w", err)
	}
	return &user, nil
}

// BulkUpdate scans the table for items matching all equality filters and
// rewrites the given attributes on each. Returns the number of items updated.
func (s *Store) BulkUpdate(ctx context.Context, table string, filters map[string]any, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, errors.NewValidationError("updates", "no updates provided")
	}
	if len(filters) == 0 {
		return 0, errors.NewValidationError("filters", "no filters provided")
	}

	keyAttr := s.keyAttr(table)
	keys, err := s.scanKeys(ctx, table, keyAttr, filters)
	if err != nil {
		return 0, err
	}

	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(updates)
	if err != nil {
		return 0, fmt.Errorf("failed to build update expression: %w", err)
	}

	var updated int64
	for _, key := range keys {
		_, err := s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
			TableName: &table,
			Key: map[string]types.AttributeValue{
				keyAttr: &types.AttributeValueMemberS{Value: key},
			},
			UpdateExpression:          &updateExpr,
			ExpressionAttributeNames:  exprAttrNames,
			ExpressionAttributeValues: exprAttrValues,
		})
		if err != nil {
			return updated, fmt.Errorf("UpdateItem failed for %s %q: %w", table, key, err)
		}
		updated++
	}

	s.log.Debug("bulk update executed", zap.String("table", table), zap.Int64("rows", updated))
	return updated, nil
}

// FindMismatches scans the table and compares each denormalised username
// against the canonical one, fetched once per distinct user. Items whose
// user is missing are not reported, matching the SQL join semantics.
func (s *Store) FindMismatches(ctx context.Context, q storagemodels.MismatchQuery) ([]string, error) {
	keyAttr := s.keyAttr(q.Table)

	usernames := make(map[string]*string) // user id -> canonical username, nil when absent

	proj := "#k, #s, #t"

	var keys []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &sdk.ScanInput{
			TableName:            &q.Table,
			ProjectionExpression: &proj,
			ExpressionAttributeNames: map[string]string{
				"#k": keyAttr,
				"#s": q.Source,
				"#t": q.Target,
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("Scan error on %s: %w", q.Table, err)
		}

		for _, item := range out.Items {
			userID := stringAttr(item, q.Source)
			if userID == "" {
				continue
			}

			canonical, seen := usernames[userID]
			if !seen {
				user, err := s.ResolveUser(ctx, userID)
				if err != nil {
					if errors.IsNotFound(err) {
						usernames[userID] = nil
						continue
					}
					return nil, err
				}
				canonical = &user.Username
				usernames[userID] = canonical
			}
			if canonical == nil {
				continue
			}

			if stringAttr(item, q.Target) != *canonical {
				keys = append(keys, stringAttr(item, keyAttr))
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Strings(keys)
	return keys, nil
}

// UpdateUsername rewrites the canonical username attribute, untruncated.
func (s *Store) UpdateUsername(ctx context.Context, userID, username string) error {
	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(map[string]any{
		s.usernameAttr: username,
	})
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName: &s.usersTable,
		Key: map[string]types.AttributeValue{
			s.idAttr: &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
	})
	if err != nil {
		return fmt.Errorf("updating canonical username: %w", err)
	}
	return nil
}

func (s *Store) keyAttr(table string) string {
	if attr, ok := s.keyAttrs[table]; ok {
		return attr
	}
	return "id"
}

// scanKeys collects the key attribute of every item matching the filters,
// following pagination.
func (s *Store) scanKeys(ctx context.Context, table, keyAttr string, filters map[string]any) ([]string, error) {
	filterExpr, exprAttrNames, exprAttrValues, err := buildFilterExpression(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}
	exprAttrNames["#k"] = keyAttr
	proj := "#k"

	var keys []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &sdk.ScanInput{
			TableName:                 &table,
			FilterExpression:          &filterExpr,
			ProjectionExpression:      &proj,
			ExpressionAttributeNames:  exprAttrNames,
			ExpressionAttributeValues: exprAttrValues,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("Scan error on %s: %w", table, err)
		}
		for _, item := range out.Items {
			keys = append(keys, stringAttr(item, keyAttr))
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return keys, nil
}

// stringAttr converts one attribute of a DynamoDB item into a string.
func stringAttr(item map[string]types.AttributeValue, name string) string {
	val, ok := item[name]
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
	case *types.AttributeValueMemberNULL:
		return ""
	default:
		return ""
	}
}
