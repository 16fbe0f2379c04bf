package dynamo

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// String returns a string attribute.
func String(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

// Int returns a number attribute holding n.
func Int(n int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(n)}
}

// Float returns a number attribute holding the exact decimal form of f.
// DynamoDB numbers are arbitrary-precision decimals, so the float is
// converted through its shortest decimal representation.
func Float(f float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: decimal.NewFromFloat(f).String()}
}

// List returns a list attribute.
func List(values ...types.AttributeValue) types.AttributeValue {
	if values == nil {
		values = []types.AttributeValue{}
	}
	return &types.AttributeValueMemberL{Value: values}
}

// Map returns a map attribute.
func Map(item Item) types.AttributeValue {
	return &types.AttributeValueMemberM{Value: item}
}

// GetString reads a string attribute. Missing attributes yield "".
func GetString(item Item, name string) (string, error) {
	av, ok := item[name]
	if !ok {
		return "", nil
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %s: expected string, got %T", name, av)
	}
	return s.Value, nil
}

// GetDecimal reads a number attribute as an exact decimal. Missing
// attributes yield zero.
func GetDecimal(item Item, name string) (decimal.Decimal, error) {
	av, ok := item[name]
	if !ok {
		return decimal.Zero, nil
	}
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return decimal.Zero, fmt.Errorf("attribute %s: expected number, got %T", name, av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("attribute %s: invalid number %q: %w", name, n.Value, err)
	}
	return d, nil
}

// GetFloat reads a number attribute and converts it to float64.
func GetFloat(item Item, name string) (float64, error) {
	d, err := GetDecimal(item, name)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// GetInt reads a number attribute as an integer. Fractional values are
// truncated.
func GetInt(item Item, name string) (int, error) {
	d, err := GetDecimal(item, name)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

// GetList reads a list attribute. Missing attributes yield nil.
func GetList(item Item, name string) ([]types.AttributeValue, error) {
	av, ok := item[name]
	if !ok {
		return nil, nil
	}
	if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
		return nil, nil
	}
	l, ok := av.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("attribute %s: expected list, got %T", name, av)
	}
	return l.Value, nil
}

// AsMap unwraps a map attribute.
func AsMap(av types.AttributeValue) (Item, error) {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("expected map attribute, got %T", av)
	}
	return m.Value, nil
}
