package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/reservations-api/internal/domain"
)

// ReservationRepo provides typed DynamoDB operations for the reservations table.
// Lookups by phone go through the `phone-index` GSI (hash: phone, range:
// reservation_time as Unix seconds).
type ReservationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReservationRepo(client *dynamodb.Client, tableName string) *ReservationRepo {
	return &ReservationRepo{client: client, tableName: tableName}
}

func (r *ReservationRepo) Put(ctx context.Context, res *domain.Reservation) error {
	item, err := attributevalue.MarshalMap(res)
	if err != nil {
		return fmt.Errorf("marshal reservation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReservationRepo) Get(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reservation_id", reservationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reservation not found: %w", domain.ErrNotFound)
	}
	var res domain.Reservation
	if err := attributevalue.UnmarshalMap(out.Item, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListActiveFrom returns all non-cancelled reservations for the phone whose
// reservation time is at or after `from`, in ascending time order.
func (r *ReservationRepo) ListActiveFrom(ctx context.Context, phoneNumber string, from time.Time) ([]domain.Reservation, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("phone-index"),
		KeyConditionExpression: aws.String("phone = :phone AND reservation_time >= :from"),
		FilterExpression:       aws.String("#st <> :cancelled"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone":     strAttr(phoneNumber),
			":from":      numAttr(from.Unix()),
			":cancelled": strAttr(domain.StatusCancelled),
		},
	})
	if err != nil {
		return nil, err
	}
	var reservations []domain.Reservation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActiveOnDay returns the first non-cancelled reservation for the phone
// whose reservation time falls inside [dayStart, dayEnd], or nil when the day
// is free.
func (r *ReservationRepo) FindActiveOnDay(ctx context.Context, phoneNumber string, dayStart, dayEnd time.Time) (*domain.Reservation, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("phone-index"),
		KeyConditionExpression: aws.String("phone = :phone AND reservation_time BETWEEN :start AND :end"),
		FilterExpression:       aws.String("#st <> :cancelled"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone":     strAttr(phoneNumber),
			":start":     numAttr(dayStart.Unix()),
			":end":       numAttr(dayEnd.Unix()),
			":cancelled": strAttr(domain.StatusCancelled),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var res domain.Reservation
	if err := attributevalue.UnmarshalMap(out.Items[0], &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Cancel flips the reservation to cancelled, but only when the record exists,
// is owned by the phone, and is not already cancelled. The condition failing
// for any of those reasons is reported as ErrNotFound so callers cannot probe
// which reservation ids exist.
func (r *ReservationRepo) Cancel(ctx context.Context, reservationID, phoneNumber string) (*domain.Reservation, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("reservation_id", reservationID),
		UpdateExpression:    aws.String("SET #st = :cancelled"),
		ConditionExpression: aws.String("phone = :phone AND #st IN (:pending, :confirmed)"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone":     strAttr(phoneNumber),
			":cancelled": strAttr(domain.StatusCancelled),
			":pending":   strAttr(domain.StatusPending),
			":confirmed": strAttr(domain.StatusConfirmed),
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, fmt.Errorf("reservation not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	var res domain.Reservation
	if err := attributevalue.UnmarshalMap(out.Attributes, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
