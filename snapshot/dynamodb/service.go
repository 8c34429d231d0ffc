// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goccy/go-json"

	"github.com/gamers-hell/magpie/model"
	"github.com/gamers-hell/magpie/snapshot"
)

// client captures the methods of interest from the DynamoDB API. This
// should help mock API calls as well.
type client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

const idAttributeKey = "id"

// record is the single-item shape the snapshot occupies in the table.
// Events are carried as one JSON blob; the table never needs to query
// inside them, and a blob keeps writes to a single PutItem.
type record struct {
	ID        string `dynamodbav:"id"`
	Timestamp int64  `dynamodbav:"timestamp"`
	Events    int    `dynamodbav:"events"`
	Payload   []byte `dynamodbav:"payload"`
}

type executor struct {
	c         client
	tableName string
}

func (d *executor) Save(ctx context.Context, s snapshot.Snapshot) error {
	payload, err := json.Marshal(s.Events)
	if err != nil {
		return fmt.Errorf("marshaling snapshot payload: %w", err)
	}
	av, err := attributevalue.MarshalMap(record{
		ID:        snapshot.Key,
		Timestamp: s.Timestamp,
		Events:    len(s.Events),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("marshaling snapshot record: %w", err)
	}
	_, err = d.c.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	})
	return err
}

func (d *executor) Load(ctx context.Context) (snapshot.Snapshot, error) {
	rec, err := d.fetch(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	var events []model.Event
	if err := json.Unmarshal(rec.Payload, &events); err != nil {
		return snapshot.Snapshot{}, snapshot.ErrNoSnapshot
	}
	return snapshot.Snapshot{Timestamp: rec.Timestamp, Events: events}, nil
}

func (d *executor) Info(ctx context.Context) (snapshot.Info, error) {
	rec, err := d.fetch(ctx)
	if err != nil {
		return snapshot.Info{}, err
	}
	return snapshot.Info{
		Timestamp: snapshot.Snapshot{Timestamp: rec.Timestamp}.TakenAt(),
		Events:    rec.Events,
	}, nil
}

func (d *executor) Clear(ctx context.Context) error {
	_, err := d.c.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       recordKey(),
	})
	return err
}

func (d *executor) fetch(ctx context.Context) (record, error) {
	out, err := d.c.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            recordKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return record{}, err
	}
	if len(out.Item) == 0 {
		return record{}, snapshot.ErrNoSnapshot
	}
	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return record{}, snapshot.ErrNoSnapshot
	}
	return rec, nil
}

func recordKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		idAttributeKey: &types.AttributeValueMemberS{Value: snapshot.Key},
	}
}
