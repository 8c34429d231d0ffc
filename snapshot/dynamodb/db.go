// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/gamers-hell/magpie/snapshot"
)

const defaultTable = "magpie-snapshots"

// Config holds the connection settings for the DynamoDB backend.
type Config struct {
	// Table is the table the snapshot record lives in.
	// (Optional) Defaults to magpie-snapshots.
	Table string

	// Endpoint overrides the service endpoint, typically to point at a
	// local emulator. (Optional)
	Endpoint string

	// Region is the AWS region of the table.
	Region string

	// AccessKey and SecretKey configure static credentials. (Optional)
	// When empty, the default AWS credential chain applies.
	AccessKey string
	SecretKey string
}

// NewDynamoDB builds the DynamoDB-backed snapshot store.
func NewDynamoDB(config Config) (snapshot.S, error) {
	validateConfig(&config)

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	c := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})
	return &executor{c: c, tableName: config.Table}, nil
}

func validateConfig(config *Config) {
	if config.Table == "" {
		config.Table = defaultTable
	}
}
