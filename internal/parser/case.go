package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"clinsim/internal/models"
)

// ChunkCase decomposes the indexable fields of a case record into
// semantically labeled chunks. The walk is pure: scalar leaves become one
// chunk each, arrays and nested objects contribute a summary chunk plus
// recursive descent. Array descent bumps the nesting level by two so it
// stays distinguishable from object descent.
func ChunkCase(variant string, fields []models.CaseField) []models.Chunk {
	var chunks []models.Chunk
	for _, field := range fields {
		if field.Value == nil {
			continue
		}
		walkValue(&chunks, variant, field.Name, field.Value, []string{field.Name}, 0)
	}
	return chunks
}

func walkValue(out *[]models.Chunk, variant, topField string, node any, path []string, level int) {
	switch v := node.(type) {
	case map[string]any:
		// The top-level field root contributes no summary of its own.
		if len(path) > 1 {
			emit(out, variant, topField, path, level, path[len(path)-1]+": "+jsonString(v))
		}
		for _, key := range sortedKeys(v) {
			walkValue(out, variant, topField, v[key], appendPath(path, key), level+1)
		}
	case []any:
		emit(out, variant, topField, path, level, path[len(path)-1]+": "+joinItems(v))
		for i, item := range v {
			walkValue(out, variant, topField, item, appendPath(path, strconv.Itoa(i)), level+2)
		}
	default:
		emit(out, variant, topField, path, level, strings.Join(path, " ")+": "+scalarString(v))
	}
}

func emit(out *[]models.Chunk, variant, topField string, path []string, level int, text string) {
	*out = append(*out, models.Chunk{
		Text:     text,
		Source:   variant + " " + topField,
		Path:     strings.Join(path, "."),
		Level:    level,
		Keywords: ExtractKeywords(text),
	})
}

func joinItems(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		switch item.(type) {
		case map[string]any, []any:
			parts[i] = jsonString(item)
		default:
			parts[i] = scalarString(item)
		}
	}
	return strings.Join(parts, "; ")
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func jsonString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendPath(path []string, elem string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, elem)
}
