package bugzilla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBug(t *testing.T) {
	record := map[string]interface{}{
		"id":               int64(12345),
		"status":           "NEW",
		"summary":          "kernel panics on boot",
		"component":        "kernel",
		"components":       []interface{}{"kernel", "kernel-rt"},
		"cf_fixed_in":      "6.1.0",
		"cf_qa_whiteboard": "needs-triage",
		"cc":               []interface{}{"dev@example.com"},
		"blocked":          "1,2",
		"flags":            "needinfo?,fedora-cvs+",
		"groups": []interface{}{
			map[string]interface{}{"name": "security", "description": "security", "ison": int64(1)},
		},
	}

	bug, err := DecodeBug(record)
	require.NoError(t, err)

	assert.Equal(t, 12345, bug.ID)
	assert.Equal(t, "NEW", bug.Status)
	assert.Equal(t, "kernel panics on boot", bug.Summary)
	assert.Equal(t, []string{"kernel", "kernel-rt"}, bug.Components)
	assert.Equal(t, "6.1.0", bug.FixedIn)
	assert.Equal(t, "needs-triage", bug.QAWhiteboard)
	assert.Equal(t, []string{"dev@example.com"}, bug.CC)
	assert.Equal(t, "1,2", bug.Blocked)
	assert.Equal(t, "needinfo?,fedora-cvs+", bug.Flags)
	require.Len(t, bug.Groups, 1)
	assert.Equal(t, "security", bug.Groups[0].Name)
	assert.Equal(t, 1, bug.Groups[0].IsOn)
}

func TestDecodeBugsSkipsEmptySlots(t *testing.T) {
	records := []map[string]interface{}{
		{"id": int64(1), "status": "NEW"},
		nil,
		{"id": int64(3), "status": "CLOSED"},
	}

	bugs, err := DecodeBugs(records)
	require.NoError(t, err)

	require.Len(t, bugs, 2)
	assert.Equal(t, 1, bugs[0].ID)
	assert.Equal(t, 3, bugs[1].ID)
}
