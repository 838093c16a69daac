package types

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringList decodes a JSONB string array column. Malformed or empty
// payloads decode as an empty list.
func StringList(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

// JSONStrings encodes a string slice for a JSONB column.
func JSONStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

// StringMap decodes a JSONB string-to-string map column.
func StringMap(j datatypes.JSON) map[string]string {
	if len(j) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

func JSONMap(values map[string]any) datatypes.JSON {
	if values == nil {
		values = map[string]any{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}
