package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// recordID makes sure an ID taken from a URL carries its table prefix.
// "abc" becomes "user:abc", "user:abc" stays as is.
func recordID(table, id string) string {
	if strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

// formatTime renders a time the way SurrealDB expects for <datetime> casts
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// queryOne runs a query and returns the first record, or nil when there is none
func queryOne(ctx context.Context, db database.Database, query string, vars map[string]interface{}) (map[string]interface{}, error) {
	result, err := db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result format %T", database.ErrQuery, result)
	}
	return data, nil
}

// queryList runs a query and returns the records of its last statement
func queryList(ctx context.Context, db database.Database, query string, vars map[string]interface{}) ([]map[string]interface{}, error) {
	result, err := db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return extractQueryResults(result), nil
}

// extractQueryResults extracts the record maps from a SurrealDB response.
// Multi statement queries return the records of the last statement.
func extractQueryResults(result []interface{}) []map[string]interface{} {
	if len(result) == 0 {
		return nil
	}

	last := result[len(result)-1]
	var rows []interface{}
	if resp, ok := last.(map[string]interface{}); ok {
		if resultArray, ok := resp["result"].([]interface{}); ok {
			rows = resultArray
		}
	}

	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			records = append(records, data)
		}
	}
	return records
}

// extractCount extracts count from a `SELECT count() ... GROUP ALL` result
func extractCount(result []interface{}) int {
	records := extractQueryResults(result)
	if len(records) == 0 {
		return 0
	}
	return getInt(records[0], "count")
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		// {"tb": "user", "id": "xyz"} or {"Table": "user", "ID": "xyz"}
		tb := firstString(v, "tb", "TB", "Table")
		idPart := ""
		for _, key := range []string{"id", "ID"} {
			if raw, ok := v[key]; ok {
				idPart = extractIDValue(raw)
				break
			}
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		return idPart
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s := firstString(m, "String", "string"); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			return s
		}
	}
	return ""
}

// getID extracts a record link or id field as "table:id"
func getID(m map[string]interface{}, key string) string {
	return convertSurrealID(m[key])
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	case time.Time:
		return &v
	case models.CustomDateTime:
		t := v.Time
		return &t
	case *models.CustomDateTime:
		if v != nil {
			t := v.Time
			return &t
		}
	}
	return nil
}

// getTimeValue is getTime for required fields
func getTimeValue(m map[string]interface{}, key string) time.Time {
	if t := getTime(m, key); t != nil {
		return *t
	}
	return time.Time{}
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	result := []string{}
	if v, ok := m[key].([]interface{}); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
	}
	return result
}

// getMapSlice extracts a slice of objects from a map
func getMapSlice(m map[string]interface{}, key string) []map[string]interface{} {
	var result []map[string]interface{}
	if v, ok := m[key].([]interface{}); ok {
		for _, item := range v {
			if data, ok := item.(map[string]interface{}); ok {
				result = append(result, data)
			}
		}
	}
	return result
}
