package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Weaviate responses arrive as decoded JSON; these helpers read typed values
// out of a property map and fall back to zero values.

func stringProp(props map[string]interface{}, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func stringsProp(props map[string]interface{}, key string) []string {
	switch v := props[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func floatProp(props map[string]interface{}, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func timeProp(props map[string]interface{}, key string) time.Time {
	s, ok := props[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapProp(props map[string]interface{}, key string) map[string]interface{} {
	m, _ := props[key].(map[string]interface{})
	return m
}
