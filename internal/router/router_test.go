package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/docflows/pandagate/internal/schema"
)

// minimalDocument builds the smallest document payload the schema accepts.
func minimalDocument() map[string]any {
	return map[string]any{
		"id":            "doc-1",
		"name":          "Doc",
		"date_created":  "2021-02-04T16:49:26Z",
		"date_modified": "2021-02-04T16:55:09Z",
		"created_by": map[string]any{
			"id":            "usr-1",
			"email":         "creator@example.com",
			"first_name":    "A",
			"last_name":     "B",
			"avatar":        nil,
			"membership_id": "mem-1",
		},
		"metadata":       map[string]any{},
		"tokens":         []any{},
		"fields":         []any{},
		"pricing":        map[string]any{},
		"version":        "1",
		"tags":           []any{},
		"status":         "document.sent",
		"recipients":     []any{},
		"grand_total":    map[string]any{"amount": "0.00", "currency": "USD"},
		"linked_objects": []any{},
	}
}

func envelope(t *testing.T, entries ...map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}

func TestRouteHandledEntry(t *testing.T) {
	body := envelope(t, map[string]any{
		"event": "document_state_changed",
		"data":  minimalDocument(),
	})

	results, err := Route(body)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	res := results[0]
	if !res.Handled() {
		t.Fatalf("entry not handled: %+v", res)
	}
	if res.RouteKey != RouteKeyDocumentStateChanged {
		t.Errorf("route key = %q", res.RouteKey)
	}
	if res.Payload["id"] != "doc-1" {
		t.Errorf("payload id = %v", res.Payload["id"])
	}
	if res.Payload["status"] != "document.sent" {
		t.Errorf("payload status = %v", res.Payload["status"])
	}
}

func TestRouteMixedEnvelopePreservesOrder(t *testing.T) {
	body := envelope(t,
		map[string]any{"event": "document_state_changed", "data": minimalDocument()},
		map[string]any{"event": "document_deleted", "data": map[string]any{}},
	)

	results, err := Route(body)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	if !results[0].Handled() {
		t.Errorf("first entry should be handled: %+v", results[0])
	}
	if !results[1].Unhandled() {
		t.Errorf("second entry should be unhandled: %+v", results[1])
	}
	if results[1].Event != "document_deleted" {
		t.Errorf("second entry event = %q", results[1].Event)
	}
}

func TestRouteValidationFailureIsPerEntry(t *testing.T) {
	broken := minimalDocument()
	delete(broken, "id")

	body := envelope(t,
		map[string]any{"event": "document_state_changed", "data": broken},
		map[string]any{"event": "document_state_changed", "data": minimalDocument()},
	)

	results, err := Route(body)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	var verr *schema.ValidationError
	if !errors.As(results[0].Err, &verr) {
		t.Fatalf("first entry err = %v, want *schema.ValidationError", results[0].Err)
	}
	found := false
	for _, v := range verr.Violations {
		if v.Path == "id" {
			found = true
		}
	}
	if !found {
		t.Errorf("violations %v do not reference path id", verr.Violations)
	}

	// The broken sibling must not prevent the valid entry from routing.
	if !results[1].Handled() {
		t.Errorf("second entry should still be handled: %+v", results[1])
	}
}

func TestRouteMissingEventIsUnhandled(t *testing.T) {
	body := envelope(t, map[string]any{"data": minimalDocument()})

	results, err := Route(body)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(results) != 1 || !results[0].Unhandled() {
		t.Fatalf("results = %+v, want one unhandled entry", results)
	}
}

func TestRouteMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"event":`},
		{name: "object instead of array", body: `{"event": "x", "data": {}}`},
		{name: "scalar entry", body: `[42]`},
		{name: "null entry", body: `[null]`},
		{name: "string entry", body: `["document_state_changed"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Route([]byte(tt.body))
			if !errors.Is(err, ErrMalformedEnvelope) {
				t.Errorf("err = %v, want ErrMalformedEnvelope", err)
			}
		})
	}
}

func TestRouteEmptyEnvelope(t *testing.T) {
	results, err := Route([]byte(`[]`))
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestRouteManyEntries(t *testing.T) {
	entries := make([]map[string]any, 0, 6)
	for i := 0; i < 6; i++ {
		doc := minimalDocument()
		doc["id"] = fmt.Sprintf("doc-%d", i)
		entries = append(entries, map[string]any{"event": "document_state_changed", "data": doc})
	}

	results, err := Route(envelope(t, entries...))
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	for i, res := range results {
		want := fmt.Sprintf("doc-%d", i)
		if res.Payload["id"] != want {
			t.Errorf("entry %d id = %v, want %s", i, res.Payload["id"], want)
		}
	}
}
