package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/texrace/texrace/internal/domains/entities"
)

func (client *Client) PutMatch(ctx context.Context, match entities.MatchRecord) error {
	av, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match record: %w", err)
	}

	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.MatchesTableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put match record: %w", err)
	}
	return nil
}
