package storage

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/texrace/texrace/internal/domains/entities"
)

var ErrNotEnoughEquations = fmt.Errorf("not enough active equations")

/*
SampleEquations method    draws a random, duplicate-free sample of the active
equation catalog. The catalog is small enough to scan whole; sampling happens
in memory.
*/
func (client *Client) SampleEquations(ctx context.Context, count int) ([]entities.Equation, error) {
	var (
		equations []entities.Equation
		lastKey   map[string]types.AttributeValue
	)
	for {
		output, err := client.dynamodb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        client.cfg.EquationsTableName,
			FilterExpression: aws.String("Active = :active"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":active": &types.AttributeValueMemberBOOL{Value: true},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan equations: %w", err)
		}
		var page []entities.Equation
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, err
		}
		equations = append(equations, page...)

		lastKey = output.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	if len(equations) < count {
		return nil, ErrNotEnoughEquations
	}

	rand.Shuffle(len(equations), func(i, j int) {
		equations[i], equations[j] = equations[j], equations[i]
	})
	return equations[:count], nil
}
