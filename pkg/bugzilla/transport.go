package bugzilla

import (
	"net/http"

	"github.com/kolo/xmlrpc"
	"github.com/pkg/errors"
)

// Transport abstracts the RPC connection to a Bugzilla server. The
// production implementation speaks XML-RPC; tests substitute fakes.
type Transport interface {
	// Call invokes a single remote method. A slice in args is spread
	// into positional parameters; anything else is sent as the single
	// parameter. Server-side failures come back as *RemoteFault.
	Call(method string, args interface{}, result interface{}) error

	// NewBatch returns an empty multicall batch bound to this transport.
	NewBatch() *Batch
}

type xmlrpcTransport struct {
	client *xmlrpc.Client
}

// NewTransport opens an XML-RPC connection to the given endpoint URL,
// normally https://<host>/xmlrpc.cgi. A nil RoundTripper uses the
// default HTTP transport.
func NewTransport(serverURL string, rt http.RoundTripper) (Transport, error) {
	client, err := xmlrpc.NewClient(serverURL, rt)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s", serverURL)
	}
	return &xmlrpcTransport{client: client}, nil
}

func (t *xmlrpcTransport) Call(method string, args, result interface{}) error {
	if err := t.client.Call(method, args, result); err != nil {
		return faultOrError(method, err)
	}
	return nil
}

func (t *xmlrpcTransport) NewBatch() *Batch {
	return &Batch{call: t.Call}
}

func (t *xmlrpcTransport) Close() error {
	return t.client.Close()
}

// faultOrError maps xmlrpc fault errors onto our typed RemoteFault;
// anything else (network trouble, bad XML) passes through wrapped.
func faultOrError(method string, err error) error {
	switch fault := err.(type) {
	case xmlrpc.FaultError:
		return &RemoteFault{Method: method, Code: fault.Code, Message: fault.String}
	case *xmlrpc.FaultError:
		return &RemoteFault{Method: method, Code: fault.Code, Message: fault.String}
	}
	return errors.Wrapf(err, "calling %s", method)
}
