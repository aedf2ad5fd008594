package scoring

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// The answer-capture UI stores structured answers under a handful of
// conventional sub-keys. These names are a wire contract with already-stored
// answers and must not change.
const (
	nestGaps         = "gaps"
	nestGapAnswers   = "gap_answers"
	nestMatches      = "matches"
	nestStatements   = "statements"
	nestOrder        = "order"
	nestOrderedItems = "ordered_items"
	nestFriendEmail  = "friendEmail"
	nestManagerEmail = "managerEmail"
)

// decodeAnswerValue extracts the raw submitted value: the decoded JSON
// payload when present and parseable, the plain text answer otherwise, nil
// when the learner submitted nothing. It never fails.
func decodeAnswerValue(a Answer) any {
	if len(a.AnswerJSON) > 0 {
		var v any
		if err := json.Unmarshal(a.AnswerJSON, &v); err == nil {
			return v
		}
	}
	if strings.TrimSpace(a.TextAnswer) != "" {
		return a.TextAnswer
	}
	return nil
}

// NormalizeScalar shapes an answer payload into a single comparable value,
// as selected-option ids arrive as strings or numbers depending on the
// capture widget.
func NormalizeScalar(a Answer) string {
	return stringify(decodeAnswerValue(a))
}

// NormalizeList shapes an answer payload into an ordered list of values.
// Map-shaped payloads are first unwrapped through any of the given nested
// sub-keys; a map that remains after unwrapping contributes its values in
// key order.
func NormalizeList(a Answer, nested ...string) []string {
	return listValue(decodeAnswerValue(a), nested...)
}

// NormalizeMap shapes an answer payload into an id-keyed map of values,
// unwrapping the given nested sub-keys when present.
func NormalizeMap(a Answer, nested ...string) map[string]string {
	return mapValue(decodeAnswerValue(a), nested...)
}

// NormalizeWritingText extracts the prose to grade for writing types: the
// plain text answer when present, otherwise the structured email sub-parts
// joined in task order.
func NormalizeWritingText(a Answer) string {
	if t := strings.TrimSpace(a.TextAnswer); t != "" {
		return a.TextAnswer
	}
	v := decodeAnswerValue(a)
	switch tv := v.(type) {
	case string:
		return tv
	case map[string]any:
		var parts []string
		for _, key := range []string{nestFriendEmail, nestManagerEmail} {
			if s := strings.TrimSpace(stringify(tv[key])); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return ""
}

func listValue(v any, nested ...string) []string {
	if m, ok := v.(map[string]any); ok {
		for _, key := range nested {
			if sub, found := m[key]; found {
				return unwrappedList(sub)
			}
		}
	}
	return unwrappedList(v)
}

func unwrappedList(v any) []string {
	switch tv := v.(type) {
	case []any:
		out := make([]string, 0, len(tv))
		for _, el := range tv {
			if obj, ok := el.(map[string]any); ok {
				// Ordered-items convention: objects carrying their own
				// id or original position.
				if s := stringify(obj["id"]); s != "" {
					out = append(out, s)
				} else {
					out = append(out, stringify(obj["original_order"]))
				}
				continue
			}
			out = append(out, stringify(el))
		}
		return out
	case map[string]any:
		keys := sortedKeys(tv)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, stringify(tv[k]))
		}
		return out
	}
	return nil
}

func mapValue(v any, nested ...string) map[string]string {
	if m, ok := v.(map[string]any); ok {
		for _, key := range nested {
			if sub, found := m[key]; found {
				return unwrappedMap(sub)
			}
		}
	}
	return unwrappedMap(v)
}

func unwrappedMap(v any) map[string]string {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]string, len(tv))
		for k, el := range tv {
			out[k] = stringify(el)
		}
		return out
	case []any:
		// Index-keyed fallback so list payloads still align with numeric
		// item ids.
		out := make(map[string]string, len(tv))
		for i, el := range tv {
			out[strconv.Itoa(i)] = stringify(el)
		}
		return out
	}
	return nil
}

func stringify(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	default:
		return ""
	}
}

// sortedKeys orders map keys numerically when every key parses as an
// integer, lexicographically otherwise, so map-shaped payloads normalize
// deterministically.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	numeric := true
	nums := make(map[string]int, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			numeric = false
			break
		}
		nums[k] = n
	}
	if numeric {
		sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
	} else {
		sort.Strings(keys)
	}
	return keys
}
