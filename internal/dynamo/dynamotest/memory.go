// Package dynamotest provides an in-memory stand-in for the DynamoDB API
// that understands the subset of expressions used by this module: hash-key
// tables, equality key conditions on a table or global secondary index,
// and "SET a = :v, ..." update expressions.
package dynamotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"shopfront/internal/dynamo"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type table struct {
	hashKey string
	indexes map[string]string
	items   map[string]dynamo.Item
}

// MemoryAPI implements dynamo.API in memory.
type MemoryAPI struct {
	mu     sync.Mutex
	tables map[string]*table
	err    error

	// PageSize limits the number of items per Scan page; zero returns
	// everything in one page.
	PageSize int
}

var _ dynamo.API = (*MemoryAPI)(nil)

// New creates an empty MemoryAPI.
func New() *MemoryAPI {
	return &MemoryAPI{tables: make(map[string]*table)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (m *MemoryAPI) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Items returns a snapshot of the items stored in the named table, ordered
// by key.
func (m *MemoryAPI) Items(tableName string) []dynamo.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[tableName]
	if !ok {
		return nil
	}
	items := make([]dynamo.Item, 0, len(t.items))
	for _, k := range sortedKeys(t.items) {
		items = append(items, t.items[k])
	}
	return items
}

func (m *MemoryAPI) lookup(name *string) (*table, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Cannot do operations on a non-existent table")}
	}
	return t, nil
}

func (m *MemoryAPI) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	name := aws.ToString(in.TableName)
	if _, ok := m.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}

	t := &table{
		hashKey: hashKeyOf(in.KeySchema),
		indexes: make(map[string]string),
		items:   make(map[string]dynamo.Item),
	}
	for _, gsi := range in.GlobalSecondaryIndexes {
		t.indexes[aws.ToString(gsi.IndexName)] = hashKeyOf(gsi.KeySchema)
	}
	m.tables[name] = t

	return &dynamodb.CreateTableOutput{
		TableDescription: &types.TableDescription{
			TableName:   aws.String(name),
			TableStatus: types.TableStatusCreating,
		},
	}, nil
}

func (m *MemoryAPI) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(in.TableName); err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   in.TableName,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

func (m *MemoryAPI) ListTables(_ context.Context, _ *dynamodb.ListTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return &dynamodb.ListTablesOutput{TableNames: names}, nil
}

func (m *MemoryAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(in.TableName)
	if err != nil {
		return nil, err
	}
	key, err := keyOf(in.Key, t.hashKey)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: clone(item)}, nil
}

func (m *MemoryAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(in.TableName)
	if err != nil {
		return nil, err
	}
	key, err := keyOf(in.Item, t.hashKey)
	if err != nil {
		return nil, err
	}
	t.items[key] = clone(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (m *MemoryAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(in.TableName)
	if err != nil {
		return nil, err
	}
	key, err := keyOf(in.Key, t.hashKey)
	if err != nil {
		return nil, err
	}

	expr := strings.TrimSpace(aws.ToString(in.UpdateExpression))
	if !strings.HasPrefix(strings.ToUpper(expr), "SET ") {
		return nil, fmt.Errorf("dynamotest: unsupported update expression %q", expr)
	}

	item, ok := t.items[key]
	if !ok {
		item = clone(in.Key)
	}
	for _, assignment := range strings.Split(expr[4:], ",") {
		name, value, err := resolveEquality(assignment, in.ExpressionAttributeNames, in.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		item[name] = value
	}
	t.items[key] = item

	return &dynamodb.UpdateItemOutput{}, nil
}

func (m *MemoryAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(in.TableName)
	if err != nil {
		return nil, err
	}
	key, err := keyOf(in.Key, t.hashKey)
	if err != nil {
		return nil, err
	}
	delete(t.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *MemoryAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(in.TableName)
	if err != nil {
		return nil, err
	}

	keys := sortedKeys(t.items)
	if in.ExclusiveStartKey != nil {
		start, err := keyOf(in.ExclusiveStartKey, t.hashKey)
		if err != nil {
			return nil, err
		}
		i := sort.SearchStrings(keys, start)
		if i < len(keys) && keys[i] == start {
			i++
		}
		keys = keys[i:]
	}

	out := &dynamodb.ScanOutput{}
	if m.PageSize > 0 && len(keys) > m.PageSize {
		keys = keys[:m.PageSize]
		last := t.items[keys[len(keys)-1]]
		out.LastEvaluatedKey = dynamo.Item{t.hashKey: last[t.hashKey]}
	}
	for _, k := range keys {
		out.Items = append(out.Items, clone(t.items[k]))
	}
	out.Count = int32(len(out.Items))

	return out, nil
}

func (m *MemoryAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(in.TableName)
	if err != nil {
		return nil, err
	}

	keyAttr := t.hashKey
	if in.IndexName != nil {
		var ok bool
		if keyAttr, ok = t.indexes[aws.ToString(in.IndexName)]; !ok {
			return nil, fmt.Errorf("dynamotest: unknown index %s", aws.ToString(in.IndexName))
		}
	}

	name, value, err := resolveEquality(aws.ToString(in.KeyConditionExpression), in.ExpressionAttributeNames, in.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	if name != keyAttr {
		return nil, fmt.Errorf("dynamotest: key condition on %s, expected %s", name, keyAttr)
	}
	want, ok := scalar(value)
	if !ok {
		return nil, fmt.Errorf("dynamotest: key condition value must be a scalar")
	}

	out := &dynamodb.QueryOutput{}
	for _, k := range sortedKeys(t.items) {
		item := t.items[k]
		if got, ok := scalar(item[keyAttr]); ok && got == want {
			out.Items = append(out.Items, clone(item))
		}
	}
	out.Count = int32(len(out.Items))

	return out, nil
}

func hashKeyOf(schema []types.KeySchemaElement) string {
	for _, el := range schema {
		if el.KeyType == types.KeyTypeHash {
			return aws.ToString(el.AttributeName)
		}
	}
	return ""
}

func keyOf(item dynamo.Item, hashKey string) (string, error) {
	v, ok := scalar(item[hashKey])
	if !ok {
		return "", fmt.Errorf("dynamotest: missing key attribute %s", hashKey)
	}
	return v, nil
}

func scalar(av types.AttributeValue) (string, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, true
	case *types.AttributeValueMemberN:
		return v.Value, true
	default:
		return "", false
	}
}

// resolveEquality parses "name = :value", substituting placeholders.
func resolveEquality(expr string, names map[string]string, values dynamo.Item) (string, types.AttributeValue, error) {
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("dynamotest: unsupported expression %q", expr)
	}

	name := strings.TrimSpace(parts[0])
	if strings.HasPrefix(name, "#") {
		resolved, ok := names[name]
		if !ok {
			return "", nil, fmt.Errorf("dynamotest: unknown attribute name %s", name)
		}
		name = resolved
	}

	placeholder := strings.TrimSpace(parts[1])
	value, ok := values[placeholder]
	if !ok {
		return "", nil, fmt.Errorf("dynamotest: unknown attribute value %s", placeholder)
	}

	return name, value, nil
}

func sortedKeys(items map[string]dynamo.Item) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clone(item dynamo.Item) dynamo.Item {
	out := make(dynamo.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
