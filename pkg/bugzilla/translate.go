package bugzilla

import (
	"fmt"
	"strings"

	"github.com/openshift-eng/bugzilla-client/pkg/util"
)

// fieldAliases pairs canonical field names (left) with the legacy names
// (right) still accepted from callers. Several legacy names can fold
// into one canonical field.
var fieldAliases = [][2]string{
	{"summary", "short_desc"},
	{"description", "comment"},
	{"platform", "rep_platform"},
	{"severity", "bug_severity"},
	{"status", "bug_status"},
	{"id", "bug_id"},
	{"blocks", "blockedby"},
	{"blocks", "blocked"},
	{"depends_on", "dependson"},
	{"creator", "reporter"},
	{"url", "bug_file_loc"},
	{"dupe_of", "dupe_id"},
	{"dupe_of", "dup_id"},
	{"comments", "longdescs"},
	{"creation_time", "opendate"},
	{"creation_time", "creation_ts"},
	{"whiteboard", "status_whiteboard"},
	{"last_change_time", "delta_ts"},
}

// preTranslate rewrites a query in place so that only canonical
// server-understood field names leave the builder. The legacy bug_id
// key becomes the canonical id list (comma-split when given as a
// string), component filters are comma-split the same way, and the old
// column_list key merges into include_fields with the alias table
// applied.
func preTranslate(query map[string]interface{}) {
	if raw, ok := query["bug_id"]; ok {
		query["id"] = toStringList(raw)
		delete(query, "bug_id")
	}

	if raw, ok := query["component"]; ok {
		if s, isString := raw.(string); isString {
			query["component"] = strings.Split(s, ",")
		}
	}

	_, hasInclude := query["include_fields"]
	_, hasColumns := query["column_list"]
	if !hasInclude && !hasColumns {
		return
	}

	var include []string
	if hasInclude {
		include = toStringList(query["include_fields"])
	} else {
		include = toStringList(query["column_list"])
	}
	delete(query, "column_list")

	for _, alias := range fieldAliases {
		canonical, legacy := alias[0], alias[1]
		if !util.StrSliceContains(include, legacy) {
			continue
		}
		include = util.RemoveString(include, legacy)
		if !util.StrSliceContains(include, canonical) {
			include = append(include, canonical)
		}
	}
	query["include_fields"] = include
}

// postTranslate reshapes a returned bug record into the stable legacy
// shape callers expect, regardless of server version. Newer servers
// flattened several fields from structured objects to plain lists;
// the rules below put the old shapes back. Every rule only fires on the
// raw list form, so applying the function twice is a no-op.
func postTranslate(bug map[string]interface{}) {
	if flags, ok := bug["flags"].([]interface{}); ok {
		entries := make([]string, 0, len(flags))
		for _, raw := range flags {
			flag, isMap := raw.(map[string]interface{})
			if !isMap {
				continue
			}
			entries = append(entries, fmt.Sprintf("%v%v", flag["name"], flag["status"]))
		}
		bug["flags"] = strings.Join(entries, ",")
	}

	if blocks, ok := bug["blocks"].([]interface{}); ok {
		joined := joinAny(blocks)
		bug["blocked"] = joined
		bug["blockedby"] = joined
	}

	if keywords, ok := bug["keywords"].([]interface{}); ok {
		bug["keywords"] = joinAny(keywords)
	}

	if components, ok := bug["component"].([]interface{}); ok && len(components) > 0 {
		// newer servers return a list; keep it under the plural key and
		// point the singular key at the first entry
		bug["components"] = components
		bug["component"] = components[0]
	}

	if alias, ok := bug["alias"].([]interface{}); ok {
		bug["alias"] = joinAny(alias)
	}

	if groups, ok := bug["groups"].([]interface{}); ok {
		expanded := make([]interface{}, 0, len(groups))
		plainNames := true
		for _, raw := range groups {
			name, isString := raw.(string)
			if !isString {
				plainNames = false
				break
			}
			expanded = append(expanded, map[string]interface{}{
				"name":        name,
				"description": name,
				"ison":        1,
			})
		}
		if plainNames {
			bug["groups"] = expanded
		}
	}
}

// toStringList coerces query filter values into a string list. Plain
// strings are treated as comma-separated.
func toStringList(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return strings.Split(v, ",")
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func joinAny(list []interface{}) string {
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
