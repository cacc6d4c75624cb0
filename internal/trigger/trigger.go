// Package trigger holds the downstream trigger functions invoked once a
// payload has been routed.
package trigger

import "context"

// DocumentStateChanged fires when a PandaDoc document's state has changed.
// message is the normalized document payload; execution carries contextual
// information about the workflow being executed. The message passes through
// unchanged.
func DocumentStateChanged(ctx context.Context, message, execution map[string]any) (map[string]any, error) {
	return message, nil
}
