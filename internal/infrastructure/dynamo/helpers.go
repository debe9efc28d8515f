package dynamo

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// strAttr wraps a string as a DynamoDB string attribute value.
func strAttr(value string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: value}
}

// numAttr wraps an int64 as a DynamoDB number attribute value.
func numAttr(value int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(value, 10)}
}
