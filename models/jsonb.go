package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap type for JSONB fields
type JSONMap map[string]interface{}

// Scan implements sql.Scanner interface for JSONMap
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer interface for JSONMap
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	return json.Marshal(j)
}

// StringSlice type for JSONB string array fields (photo tags, key points, etc.)
type StringSlice []string

// Scan implements sql.Scanner interface for StringSlice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = make(StringSlice, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("StringSlice: expected []byte from database")
	}
	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer interface for StringSlice
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}
