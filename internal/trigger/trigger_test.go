package trigger

import (
	"context"
	"reflect"
	"testing"
)

func TestDocumentStateChangedPassesMessageThrough(t *testing.T) {
	message := map[string]any{
		"id":     "doc-1",
		"status": "document.completed",
	}
	execution := map[string]any{"workflow_id": "wf-9"}

	out, err := DocumentStateChanged(context.Background(), message, execution)
	if err != nil {
		t.Fatalf("DocumentStateChanged: %v", err)
	}
	if !reflect.DeepEqual(out, message) {
		t.Errorf("out = %#v, want the message unchanged", out)
	}
}

func TestDocumentStateChangedNilMessage(t *testing.T) {
	out, err := DocumentStateChanged(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("DocumentStateChanged: %v", err)
	}
	if out != nil {
		t.Errorf("out = %#v, want nil", out)
	}
}
