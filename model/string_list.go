package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringList encodes an ordered list of strings into the JSON column format
// used by all array-valued fields (UTF-8 JSON array of strings). A nil or
// empty slice encodes as an empty array, never as null.
func StringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return datatypes.JSON(data)
}

// StringListValue decodes a JSON array column back into a slice. Broken or
// empty column data decodes as an empty slice.
func StringListValue(col datatypes.JSON) []string {
	var items []string
	if err := json.Unmarshal(col, &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
