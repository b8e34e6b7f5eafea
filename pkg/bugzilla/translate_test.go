package bugzilla

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreTranslateBugID(t *testing.T) {
	tests := []struct {
		name     string
		query    map[string]interface{}
		expectID []string
	}{
		{
			name:     "comma separated string",
			query:    map[string]interface{}{"bug_id": "1,2,3"},
			expectID: []string{"1", "2", "3"},
		},
		{
			name:     "single id string",
			query:    map[string]interface{}{"bug_id": "42"},
			expectID: []string{"42"},
		},
		{
			name:     "already a list",
			query:    map[string]interface{}{"bug_id": []string{"1", "2"}},
			expectID: []string{"1", "2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			preTranslate(tc.query)
			assert.NotContains(t, tc.query, "bug_id")
			assert.Equal(t, tc.expectID, tc.query["id"])
		})
	}
}

func TestPreTranslateComponent(t *testing.T) {
	query := map[string]interface{}{"component": "glibc,kernel"}
	preTranslate(query)
	assert.Equal(t, []string{"glibc", "kernel"}, query["component"])

	// list values pass through untouched
	query = map[string]interface{}{"component": []string{"glibc"}}
	preTranslate(query)
	assert.Equal(t, []string{"glibc"}, query["component"])
}

func TestPreTranslateColumnList(t *testing.T) {
	query := map[string]interface{}{
		"column_list": []string{"short_desc", "bug_status"},
	}
	preTranslate(query)

	assert.NotContains(t, query, "column_list")
	assert.Equal(t, []string{"summary", "status"}, query["include_fields"])
}

func TestPreTranslateIncludeFieldsNoDuplicates(t *testing.T) {
	query := map[string]interface{}{
		"include_fields": []string{"status", "bug_status", "id"},
	}
	preTranslate(query)
	assert.Equal(t, []string{"status", "id"}, query["include_fields"])
}

func TestPreTranslateNoFieldKeysIsNoop(t *testing.T) {
	query := map[string]interface{}{"product": "Fedora"}
	preTranslate(query)
	assert.Equal(t, map[string]interface{}{"product": "Fedora"}, query)
}

func TestPostTranslateFlags(t *testing.T) {
	bug := map[string]interface{}{
		"flags": []interface{}{
			map[string]interface{}{"name": "needinfo", "status": "?"},
			map[string]interface{}{"name": "fedora-cvs", "status": "+"},
		},
	}
	postTranslate(bug)
	assert.Equal(t, "needinfo?,fedora-cvs+", bug["flags"])
}

func TestPostTranslateBlocks(t *testing.T) {
	bug := map[string]interface{}{"blocks": []interface{}{int64(1), int64(2)}}
	postTranslate(bug)
	assert.Equal(t, "1,2", bug["blocked"])
	assert.Equal(t, "1,2", bug["blockedby"])

	empty := map[string]interface{}{"blocks": []interface{}{}}
	postTranslate(empty)
	assert.Equal(t, "", empty["blocked"])
	assert.Equal(t, "", empty["blockedby"])
}

func TestPostTranslateKeywordsAndAlias(t *testing.T) {
	bug := map[string]interface{}{
		"keywords": []interface{}{"Tracking", "Reopened"},
		"alias":    []interface{}{"CVE-2014-0001"},
	}
	postTranslate(bug)
	assert.Equal(t, "Tracking,Reopened", bug["keywords"])
	assert.Equal(t, "CVE-2014-0001", bug["alias"])

	empty := map[string]interface{}{
		"keywords": []interface{}{},
		"alias":    []interface{}{},
	}
	postTranslate(empty)
	assert.Equal(t, "", empty["keywords"])
	assert.Equal(t, "", empty["alias"])
}

func TestPostTranslateComponent(t *testing.T) {
	bug := map[string]interface{}{"component": []interface{}{"glibc", "kernel"}}
	postTranslate(bug)
	assert.Equal(t, "glibc", bug["component"])
	assert.Equal(t, []interface{}{"glibc", "kernel"}, bug["components"])
}

func TestPostTranslateGroups(t *testing.T) {
	bug := map[string]interface{}{"groups": []interface{}{"private", "security"}}
	postTranslate(bug)

	groups, ok := bug["groups"].([]interface{})
	require.True(t, ok)
	require.Len(t, groups, 2)
	assert.Equal(t, map[string]interface{}{
		"name":        "private",
		"description": "private",
		"ison":        1,
	}, groups[0])
}

// Post-translation re-applied to an already translated record must not
// change it again.
func TestPostTranslateIdempotent(t *testing.T) {
	bug := map[string]interface{}{
		"flags": []interface{}{
			map[string]interface{}{"name": "needinfo", "status": "?"},
		},
		"blocks":    []interface{}{int64(7)},
		"keywords":  []interface{}{"Tracking"},
		"component": []interface{}{"glibc"},
		"alias":     []interface{}{},
		"groups":    []interface{}{"private"},
	}

	postTranslate(bug)
	first := cloneQuery(bug)
	postTranslate(bug)

	if diff := cmp.Diff(first, bug); diff != "" {
		t.Errorf("second post-translation changed the record:\n%s", diff)
	}
}

func TestToStringList(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		expect []string
	}{
		{name: "nil", in: nil, expect: nil},
		{name: "comma string", in: "a,b", expect: []string{"a", "b"}},
		{name: "string slice", in: []string{"a"}, expect: []string{"a"}},
		{name: "interface slice", in: []interface{}{"a", int64(2)}, expect: []string{"a", "2"}},
		{name: "scalar", in: 7, expect: []string{"7"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, toStringList(tc.in))
		})
	}
}
