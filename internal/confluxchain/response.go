// Response rewriting: a pure recursive descent that returns a rebuilt tree
// rather than mutating in place (spec §9 DESIGN NOTES "Recursive object
// mutation in response translator"). Field renames are data-driven
// (fromKey -> [derivedKey...]) per the same design note.
package confluxchain

import "strings"

// derivedFields is the (fromKey -> [derivedKey...]) rename/duplication
// table from spec §4.4.
var derivedFields = map[string][]string{
	"epochNumber":     {"number", "blockNumber"},
	"index":           {"transactionIndex"},
	"gasUsed":         {"cumulativeGasUsed"},
	"contractCreated": {"contractAddress"},
	"stateRoot":       {"root"},
}

// RewriteResponse recursively rebuilds result into Ethereum-shaped JSON,
// per spec §4.4 "Response rewriting" and property R2 (idempotent on
// Ethereum-native objects, since cfx-prefixed strings and the renamed
// keys simply won't appear again).
func RewriteResponse(result interface{}) interface{} {
	return rewrite(result, nil)
}

// parent is the enclosing object; it is passed along but not read.
// logs[i] get their tx/block identifiers from the receipt in
// rewriteObject, via enrichLog (spec §4.4 "logs[i] enrich").
func rewrite(v interface{}, parent map[string]interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return rewriteObject(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			if obj, ok := item.(map[string]interface{}); ok {
				out[i] = rewriteLogEntry(obj, parent)
			} else {
				out[i] = rewrite(item, parent)
			}
		}
		return out
	case string:
		if LooksLikeCfxAddress(val) {
			if addr, gerr := DecodeAddress(val); gerr == nil {
				return addr.Hex()
			}
		}
		return val
	default:
		return val
	}
}

func rewriteObject(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj)+4)
	for k, v := range obj {
		out[k] = rewrite(v, obj)
	}

	for from, derived := range derivedFields {
		if v, ok := out[from]; ok {
			for _, d := range derived {
				out[d] = v
			}
		}
	}

	if v, ok := out["outcomeStatus"]; ok {
		out["status"] = invertStatus(v)
	} else if v, ok := out["status"]; ok {
		out["status"] = invertStatus(v)
	}

	if logs, ok := out["logs"].([]interface{}); ok {
		enriched := make([]interface{}, len(logs))
		for i, l := range logs {
			if obj, ok := l.(map[string]interface{}); ok {
				enriched[i] = enrichLog(obj, out)
			} else {
				enriched[i] = l
			}
		}
		out["logs"] = enriched
	}

	return out
}

// rewriteLogEntry is just rewriteObject, kept separate so array elements
// that aren't the top-level receipt still get full treatment.
func rewriteLogEntry(obj map[string]interface{}, parent map[string]interface{}) interface{} {
	return rewriteObject(obj)
}

// invertStatus flips Conflux's outcomeStatus semantics (0=success) onto
// Ethereum's (1=success), normalizing to 0x-hex (spec §4.4, I6).
func invertStatus(v interface{}) string {
	if isZero(v) {
		return "0x1"
	}
	return "0x0"
}

func isZero(v interface{}) bool {
	switch t := v.(type) {
	case float64:
		return t == 0
	case string:
		s := strings.ToLower(t)
		return s == "0" || s == "0x0"
	default:
		return false
	}
}

// enrichLog copies identifiers from the enclosing receipt/tx onto each log
// entry (spec §4.4 "logs[i]").
func enrichLog(log map[string]interface{}, enclosing map[string]interface{}) map[string]interface{} {
	for _, k := range []string{"transactionIndex", "transactionHash", "blockNumber", "blockHash"} {
		if v, ok := enclosing[k]; ok {
			log[k] = v
		}
	}
	if _, ok := log["logIndex"]; !ok {
		if idx, ok := log["index"]; ok {
			log["logIndex"] = idx
		}
	}
	return log
}
