package bugzilla

import (
	"crypto/tls"
	"io"
	"net/http"
	"reflect"
	"sync"

	goversion "github.com/hashicorp/go-version"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	bugzillav1 "github.com/openshift-eng/bugzilla-client/pkg/apis/bugzilla/v1"
	configv1 "github.com/openshift-eng/bugzilla-client/pkg/apis/config/v1"
)

// minIDListVersion is the oldest server whose Bug.get accepts an id
// list; older servers only have the legacy per-id lookup.
var minIDListVersion = goversion.Must(goversion.NewVersion("3.6"))

// Client talks to one Bugzilla instance over its XML-RPC interface.
//
// Bug lookups default to aggregating per-id calls into a single
// system.multicall round trip; see BugzillaConfig.Multicall for the
// tradeoff.
type Client struct {
	transport Transport
	user      string
	password  string
	multicall bool

	versionOnce sync.Once
	version     *goversion.Version
	versionErr  error
}

// New connects a client according to the given configuration.
func New(cfg *configv1.BugzillaConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, &ValidationError{Field: "url", Reason: "server URL is required"}
	}
	var rt http.RoundTripper
	if cfg.SSLVerify != nil && !*cfg.SSLVerify {
		rt = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}} //nolint:gosec
	}
	transport, err := NewTransport(cfg.URL, rt)
	if err != nil {
		return nil, errors.WithMessage(err, "could not set up bugzilla transport")
	}
	return NewWithTransport(cfg, transport), nil
}

// NewWithTransport wires a client over an existing transport. Tests use
// this to substitute a fake.
func NewWithTransport(cfg *configv1.BugzillaConfig, transport Transport) *Client {
	multicall := true
	if cfg.Multicall != nil {
		multicall = *cfg.Multicall
	}
	return &Client{
		transport: transport,
		user:      cfg.Username,
		password:  cfg.Password,
		multicall: multicall,
	}
}

// Close releases the underlying transport when it holds a connection.
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type versionResponse struct {
	Version string `xmlrpc:"version"`
}

// ServerVersion fetches the server's version, caching it for the
// lifetime of the client.
func (c *Client) ServerVersion() (*goversion.Version, error) {
	c.versionOnce.Do(func() {
		var response versionResponse
		if err := c.transport.Call("Bugzilla.version", nil, &response); err != nil {
			c.versionErr = err
			return
		}
		c.version, c.versionErr = goversion.NewVersion(response.Version)
	})
	return c.version, c.versionErr
}

func (c *Client) supportsIDListGet() bool {
	version, err := c.ServerVersion()
	if err != nil {
		log.WithError(err).Debug("could not determine server version, assuming a modern one")
		return true
	}
	return version.GreaterThanOrEqual(minIDListVersion)
}

// GetBug fetches a single raw bug record. Note the record is not
// post-translated; Query does that for search results.
func (c *Client) GetBug(id int) (map[string]interface{}, error) {
	var bug map[string]interface{}
	if err := c.transport.Call("bugzilla.getBug", []interface{}{id}, &bug); err != nil {
		return nil, err
	}
	return bug, nil
}

type bugList struct {
	Bugs []map[string]interface{} `xmlrpc:"bugs"`
}

// GetBugs fetches several bugs, preserving the order of ids in the
// returned slice.
//
// In multicall mode (the default) the lookups travel as one round trip
// and a missing or unreadable bug leaves a nil slot instead of failing
// the whole call. With multicall disabled a single Bug.get carries the
// id list, and any bad id faults the entire request; that path needs a
// 3.6+ server and falls back to sequential legacy lookups on older ones.
func (c *Client) GetBugs(ids []int) ([]map[string]interface{}, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	if !c.multicall {
		if c.supportsIDListGet() {
			var result bugList
			if err := c.transport.Call("Bug.get", map[string]interface{}{"ids": ids}, &result); err != nil {
				return nil, err
			}
			return result.Bugs, nil
		}
		bugs := make([]map[string]interface{}, 0, len(ids))
		for _, id := range ids {
			bug, err := c.GetBug(id)
			if err != nil {
				return nil, err
			}
			bugs = append(bugs, bug)
		}
		return bugs, nil
	}

	if len(ids) == 1 {
		bug, err := c.GetBug(ids[0])
		if err != nil {
			return nil, err
		}
		return []map[string]interface{}{bug}, nil
	}

	batch := c.transport.NewBatch()
	for _, id := range ids {
		batch.Queue("bugzilla.getBug", id)
	}
	results, err := batch.Run()
	if err != nil {
		return nil, err
	}

	bugs := make([]map[string]interface{}, len(results))
	for i, result := range results {
		if result.Fault != nil {
			// keep the nil slot so callers can still attribute the
			// other results to their ids
			log.WithError(result.Fault).Warningf("bug %d could not be fetched", ids[i])
			continue
		}
		if record, ok := result.Value.(map[string]interface{}); ok {
			bugs[i] = record
		}
	}
	return bugs, nil
}

// Query searches for bugs. The query may use legacy field names; it is
// pre-translated before going to the server, and every returned record
// is post-translated into the stable legacy shape. The SQL in the result
// is whatever the server generated, passed through for diagnostics.
func (c *Client) Query(query map[string]interface{}) (*bugzillav1.QueryResult, error) {
	translated := cloneQuery(query)
	preTranslate(translated)
	if !reflect.DeepEqual(query, translated) {
		log.Debugf("pre-translation altered the query to: %v", translated)
	}

	var raw map[string]interface{}
	if err := c.transport.Call("Bug.search", translated, &raw); err != nil {
		return nil, err
	}

	result := &bugzillav1.QueryResult{}
	if sql, ok := raw["sql"].(string); ok {
		result.SQL = sql
	}
	rawBugs, _ := raw["bugs"].([]interface{})
	result.Bugs = make([]map[string]interface{}, 0, len(rawBugs))
	for _, rawBug := range rawBugs {
		bug, ok := rawBug.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("unexpected bug record shape %T in search result", rawBug)
		}
		postTranslate(bug)
		result.Bugs = append(result.Bugs, bug)
	}
	return result, nil
}

// GetQueryInfo returns the server's stored query metadata.
func (c *Client) GetQueryInfo() (interface{}, error) {
	var result interface{}
	if err := c.transport.Call("bugzilla.getQueryInfo", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
