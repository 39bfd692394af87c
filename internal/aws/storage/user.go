package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/texrace/texrace/internal/domains/entities"
)

var ErrUserNotFound = fmt.Errorf("user not found")

func (client *Client) GetUser(ctx context.Context, userId string) (entities.User, error) {
	output, err := client.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: client.cfg.UsersTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{
				Value: userId,
			},
		},
	})
	if err != nil {
		return entities.User{}, err
	}
	if output.Item == nil {
		return entities.User{}, ErrUserNotFound
	}
	var user entities.User
	if err := attributevalue.UnmarshalMap(output.Item, &user); err != nil {
		return entities.User{}, err
	}
	return user, nil
}

/*
ApplyMatchOutcome method    records one decisive match result on a user record:
sets the recalculated rating, bumps the games-played and win/loss counters and
extends or resets the streak. Must be called exactly once per user per match.
*/
func (client *Client) ApplyMatchOutcome(ctx context.Context, userId string, won bool, newRating int) error {
	var (
		updateExpression string
		output           *dynamodb.UpdateItemOutput
		err              error
	)
	if won {
		updateExpression = "SET Rating = :rating ADD GamesPlayed :one, Wins :one, Streak :one"
	} else {
		updateExpression = "SET Rating = :rating, Streak = :zero ADD GamesPlayed :one, Losses :one"
	}

	expressionAttributeValues := map[string]types.AttributeValue{
		":rating": &types.AttributeValueMemberN{Value: strconv.Itoa(newRating)},
		":one":    &types.AttributeValueMemberN{Value: "1"},
	}
	if !won {
		expressionAttributeValues[":zero"] = &types.AttributeValueMemberN{Value: "0"}
	}

	output, err = client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.UsersTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{Value: userId},
		},
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeValues: expressionAttributeValues,
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("failed to apply match outcome: %w", err)
	}

	if won {
		return client.raiseBestStreak(ctx, userId, output.Attributes)
	}
	return nil
}

// raiseBestStreak lifts BestStreak to the just-extended streak. The conditional
// check fails when the best streak is already higher, which is not an error.
func (client *Client) raiseBestStreak(ctx context.Context, userId string, updated map[string]types.AttributeValue) error {
	streakAttr, ok := updated["Streak"].(*types.AttributeValueMemberN)
	if !ok {
		return nil
	}
	_, err := client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.UsersTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{Value: userId},
		},
		UpdateExpression:    aws.String("SET BestStreak = :streak"),
		ConditionExpression: aws.String("attribute_not_exists(BestStreak) OR BestStreak < :streak"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":streak": &types.AttributeValueMemberN{Value: streakAttr.Value},
		},
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return nil
		}
		return fmt.Errorf("failed to raise best streak: %w", err)
	}
	return nil
}
