package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/reservations-api/internal/domain"
)

// LockRepo manages per-phone-per-day reservation locks. A conditional put
// is the uniqueness backstop for two creations racing past the duplicate
// query; the store rejects the second writer.
type LockRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLockRepo(client *dynamodb.Client, tableName string) *LockRepo {
	return &LockRepo{client: client, tableName: tableName}
}

func (r *LockRepo) Acquire(ctx context.Context, l *domain.ReservationLock) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal reservation lock: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(lock_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("day already booked for this phone: %w", domain.ErrDuplicateBooking)
		}
		return err
	}
	return nil
}

func (r *LockRepo) Release(ctx context.Context, lockID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("lock_id", lockID),
	})
	return err
}
