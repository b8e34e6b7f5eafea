package bugzilla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configv1 "github.com/openshift-eng/bugzilla-client/pkg/apis/config/v1"
)

type recordedCall struct {
	method string
	args   interface{}
}

// fakeTransport records calls and lets the test script responses by
// method name.
type fakeTransport struct {
	calls    []recordedCall
	handlers map[string]func(args interface{}, result interface{}) error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: map[string]func(args, result interface{}) error{}}
}

func (f *fakeTransport) handle(method string, handler func(args, result interface{}) error) {
	f.handlers[method] = handler
}

func (f *fakeTransport) Call(method string, args, result interface{}) error {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	if handler, ok := f.handlers[method]; ok {
		return handler(args, result)
	}
	return nil
}

func (f *fakeTransport) NewBatch() *Batch {
	return &Batch{call: f.Call}
}

func (f *fakeTransport) methods() []string {
	out := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		out = append(out, call.method)
	}
	return out
}

func newTestClient(transport Transport) *Client {
	return NewWithTransport(&configv1.BugzillaConfig{
		URL:      "https://bugzilla.example.com/xmlrpc.cgi",
		Username: "tester@example.com",
		Password: "hunter2",
	}, transport)
}

func newTestClientNoMulticall(transport Transport) *Client {
	multicall := false
	return NewWithTransport(&configv1.BugzillaConfig{
		URL:       "https://bugzilla.example.com/xmlrpc.cgi",
		Multicall: &multicall,
	}, transport)
}

func serveVersion(transport *fakeTransport, version string) {
	transport.handle("Bugzilla.version", func(args, result interface{}) error {
		response := result.(*versionResponse)
		response.Version = version
		return nil
	})
}

func TestGetBugsMulticallLenient(t *testing.T) {
	transport := newFakeTransport()
	transport.handle("system.multicall", func(args, result interface{}) error {
		slots := result.(*[]interface{})
		*slots = []interface{}{
			[]interface{}{map[string]interface{}{"id": int64(1), "status": "NEW"}},
			map[string]interface{}{"faultCode": int64(102), "faultString": "Access Denied"},
			[]interface{}{map[string]interface{}{"id": int64(3), "status": "CLOSED"}},
		}
		return nil
	})
	client := newTestClient(transport)

	bugs, err := client.GetBugs([]int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, bugs, 3)

	assert.Equal(t, []string{"system.multicall"}, transport.methods())
	assert.Equal(t, int64(1), bugs[0]["id"])
	assert.Nil(t, bugs[1], "faulted slot should be left empty")
	assert.Equal(t, int64(3), bugs[2]["id"])
}

func TestGetBugsMulticallQueuesPerID(t *testing.T) {
	transport := newFakeTransport()
	transport.handle("system.multicall", func(args, result interface{}) error {
		params := args.([]interface{})
		require.Len(t, params, 1)
		entries := params[0].([]interface{})
		require.Len(t, entries, 2)
		for i, id := range []int{7, 8} {
			entry := entries[i].(map[string]interface{})
			assert.Equal(t, "bugzilla.getBug", entry["methodName"])
			assert.Equal(t, []interface{}{id}, entry["params"])
		}

		slots := result.(*[]interface{})
		*slots = []interface{}{
			[]interface{}{map[string]interface{}{"id": int64(7)}},
			[]interface{}{map[string]interface{}{"id": int64(8)}},
		}
		return nil
	})
	client := newTestClient(transport)

	bugs, err := client.GetBugs([]int{7, 8})
	require.NoError(t, err)
	require.Len(t, bugs, 2)
}

func TestGetBugsSingleIDSkipsMulticall(t *testing.T) {
	transport := newFakeTransport()
	transport.handle("bugzilla.getBug", func(args, result interface{}) error {
		record := result.(*map[string]interface{})
		*record = map[string]interface{}{"id": int64(42)}
		return nil
	})
	client := newTestClient(transport)

	bugs, err := client.GetBugs([]int{42})
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.Equal(t, []string{"bugzilla.getBug"}, transport.methods())
}

func TestGetBugsWithoutMulticall(t *testing.T) {
	transport := newFakeTransport()
	serveVersion(transport, "5.0.4")
	transport.handle("Bug.get", func(args, result interface{}) error {
		params := args.(map[string]interface{})
		assert.Equal(t, []int{1, 2}, params["ids"])
		list := result.(*bugList)
		list.Bugs = []map[string]interface{}{{"id": int64(1)}, {"id": int64(2)}}
		return nil
	})
	client := newTestClientNoMulticall(transport)

	bugs, err := client.GetBugs([]int{1, 2})
	require.NoError(t, err)
	require.Len(t, bugs, 2)
	assert.Equal(t, []string{"Bugzilla.version", "Bug.get"}, transport.methods())
}

func TestGetBugsWithoutMulticallAncientServer(t *testing.T) {
	transport := newFakeTransport()
	serveVersion(transport, "3.2.1")
	transport.handle("bugzilla.getBug", func(args, result interface{}) error {
		record := result.(*map[string]interface{})
		*record = map[string]interface{}{"id": args.([]interface{})[0]}
		return nil
	})
	client := newTestClientNoMulticall(transport)

	bugs, err := client.GetBugs([]int{1, 2})
	require.NoError(t, err)
	require.Len(t, bugs, 2)
	assert.Equal(t, []string{"Bugzilla.version", "bugzilla.getBug", "bugzilla.getBug"}, transport.methods())
}

func TestQueryTranslatesBothWays(t *testing.T) {
	transport := newFakeTransport()
	transport.handle("Bug.search", func(args, result interface{}) error {
		query := args.(map[string]interface{})
		// pre-translation must already have happened
		assert.NotContains(t, query, "bug_id")
		assert.Equal(t, []string{"123", "456"}, query["id"])

		response := result.(*map[string]interface{})
		*response = map[string]interface{}{
			"sql": "SELECT 1",
			"bugs": []interface{}{
				map[string]interface{}{
					"id": int64(123),
					"flags": []interface{}{
						map[string]interface{}{"name": "needinfo", "status": "?"},
					},
					"blocks": []interface{}{},
				},
			},
		}
		return nil
	})
	client := newTestClient(transport)

	query := map[string]interface{}{"bug_id": "123,456"}
	result, err := client.Query(query)
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1", result.SQL)
	require.Len(t, result.Bugs, 1)
	assert.Equal(t, "needinfo?", result.Bugs[0]["flags"])
	assert.Equal(t, "", result.Bugs[0]["blocked"])
	assert.Equal(t, "", result.Bugs[0]["blockedby"])

	// the caller's query must not have been touched
	assert.Equal(t, map[string]interface{}{"bug_id": "123,456"}, query)
}

func TestServerVersionCached(t *testing.T) {
	transport := newFakeTransport()
	serveVersion(transport, "4.4.13")
	client := newTestClient(transport)

	first, err := client.ServerVersion()
	require.NoError(t, err)
	second, err := client.ServerVersion()
	require.NoError(t, err)

	assert.Equal(t, "4.4.13", first.String())
	assert.Same(t, first, second)
	assert.Len(t, transport.calls, 1)
}

func TestGetBugsEmpty(t *testing.T) {
	transport := newFakeTransport()
	client := newTestClient(transport)

	bugs, err := client.GetBugs(nil)
	require.NoError(t, err)
	assert.Nil(t, bugs)
	assert.Empty(t, transport.calls)
}
