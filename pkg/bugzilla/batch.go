package bugzilla

import (
	"github.com/pkg/errors"
)

// Batch queues remote calls and executes them as a single
// system.multicall round trip. The server runs the queued calls
// sequentially and results come back in submission order.
//
// By default a faulted call only poisons its own result slot; set Strict
// to abort the whole batch on the first fault instead. Batching trades
// per-call error attribution for round trips: callers that need precise
// faults per id should fall back to one call per id.
type Batch struct {
	call    func(method string, args, result interface{}) error
	pending []pendingCall

	Strict bool
}

type pendingCall struct {
	Method string
	Params []interface{}
}

// BatchResult is one slot of a multicall response: either a decoded
// value or the fault that replaced it.
type BatchResult struct {
	Value interface{}
	Fault *RemoteFault
}

// Queue appends a call to the batch. Nothing goes on the wire until Run.
func (b *Batch) Queue(method string, args ...interface{}) {
	b.pending = append(b.pending, pendingCall{Method: method, Params: args})
}

func (b *Batch) Len() int {
	return len(b.pending)
}

// Run executes the queued calls in one round trip and returns their
// results in submission order.
func (b *Batch) Run() ([]BatchResult, error) {
	if len(b.pending) == 0 {
		return nil, nil
	}

	entries := make([]interface{}, 0, len(b.pending))
	for _, call := range b.pending {
		params := call.Params
		if params == nil {
			params = []interface{}{}
		}
		entries = append(entries, map[string]interface{}{
			"methodName": call.Method,
			"params":     params,
		})
	}

	var raw []interface{}
	if err := b.call("system.multicall", []interface{}{entries}, &raw); err != nil {
		return nil, err
	}
	if len(raw) != len(b.pending) {
		return nil, errors.Errorf("multicall returned %d results for %d calls", len(raw), len(b.pending))
	}

	results := make([]BatchResult, len(raw))
	for i, slot := range raw {
		result, err := decodeMulticallSlot(b.pending[i].Method, slot)
		if err != nil {
			return nil, err
		}
		if result.Fault != nil && b.Strict {
			return nil, result.Fault
		}
		results[i] = result
	}
	return results, nil
}

// Each multicall slot is either a single-element array holding the
// call's return value, or a fault struct.
func decodeMulticallSlot(method string, slot interface{}) (BatchResult, error) {
	switch v := slot.(type) {
	case []interface{}:
		if len(v) != 1 {
			return BatchResult{}, errors.Errorf("multicall slot for %s holds %d values, expected 1", method, len(v))
		}
		return BatchResult{Value: v[0]}, nil
	case map[string]interface{}:
		fault := &RemoteFault{Method: method}
		switch code := v["faultCode"].(type) {
		case int:
			fault.Code = code
		case int64:
			fault.Code = int(code)
		}
		if message, ok := v["faultString"].(string); ok {
			fault.Message = message
		}
		return BatchResult{Fault: fault}, nil
	}
	return BatchResult{}, errors.Errorf("unexpected multicall slot shape %T for %s", slot, method)
}
