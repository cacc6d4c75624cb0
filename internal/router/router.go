// Package router dispatches webhook envelope entries to their normalization
// path by event type and emits (route key, normalized payload) pairs.
package router

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/docflows/pandagate/internal/schema"
)

// RouteKeyDocumentStateChanged identifies the downstream handler for
// document state transitions.
const RouteKeyDocumentStateChanged = "pandadoc.triggers.document_state_changed"

// ErrMalformedEnvelope reports a webhook body that is not valid JSON or not
// an array of {event, data} objects. It is fatal for the whole request,
// unlike per-entry failures.
var ErrMalformedEnvelope = errors.New("malformed webhook envelope")

// binding ties an event discriminator to the schema its data is validated
// against and the routing key emitted on success.
type binding struct {
	kind schema.Kind
	key  string
}

// routes is the static dispatch table. Supporting a new event type is a new
// table entry, not new control flow.
var routes = map[string]binding{
	"document_state_changed": {kind: schema.KindDocument, key: RouteKeyDocumentStateChanged},
}

// Result is the outcome of routing one envelope entry.
//
// Exactly one of three states holds: a handled entry has a RouteKey and a
// Payload; an unrecognized event type has neither RouteKey nor Err; a
// recognized entry whose data failed validation carries the
// *schema.ValidationError in Err.
type Result struct {
	Event    string
	RouteKey string
	Payload  map[string]any
	Err      error
}

// Handled reports whether the entry produced a routable payload.
func (r Result) Handled() bool { return r.RouteKey != "" && r.Err == nil }

// Unhandled reports whether the entry's event type is not in the dispatch
// table.
func (r Result) Unhandled() bool { return r.RouteKey == "" && r.Err == nil }

// Route parses body as a webhook envelope and routes each entry in array
// order. Per-entry failures (unrecognized event types, validation errors)
// are reported in the corresponding Result and never abort sibling entries.
// The returned error is non-nil only for a malformed envelope, in which case
// no Results are produced.
func Route(body []byte) ([]Result, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	results := make([]Result, 0, len(raw))
	for i, rawEntry := range raw {
		var entry map[string]any
		if err := json.Unmarshal(rawEntry, &entry); err != nil || entry == nil {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrMalformedEnvelope, i)
		}
		results = append(results, routeEntry(entry["event"], entry["data"]))
	}
	return results, nil
}

func routeEntry(event, data any) Result {
	name, _ := event.(string)
	b, ok := routes[name]
	if !ok {
		return Result{Event: name}
	}

	entity, err := schema.Decode(b.kind, data)
	if err != nil {
		return Result{Event: name, Err: err}
	}
	payload, err := entity.Wire()
	if err != nil {
		return Result{Event: name, Err: fmt.Errorf("serialize %s payload: %w", b.kind, err)}
	}
	return Result{Event: name, RouteKey: b.key, Payload: payload}
}
