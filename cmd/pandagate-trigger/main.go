// Command pandagate-trigger invokes the document_state_changed trigger from
// the command line. It takes two JSON-encoded positional arguments, the
// message and the workflow context, prints the JSON-encoded result to
// stdout, and exits non-zero when there is no result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/docflows/pandagate/internal/trigger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "missing required `message` argument")
		return 1
	}
	if len(args) < 2 {
		fmt.Fprintln(stderr, "missing `context` argument")
		return 1
	}

	var message map[string]any
	if err := json.Unmarshal([]byte(args[0]), &message); err != nil {
		fmt.Fprintf(stderr, "invalid message JSON: %v\n", err)
		return 1
	}
	var execution map[string]any
	if err := json.Unmarshal([]byte(args[1]), &execution); err != nil {
		fmt.Fprintf(stderr, "invalid context JSON: %v\n", err)
		return 1
	}

	output, err := trigger.DocumentStateChanged(context.Background(), message, execution)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if output == nil {
		return 1
	}

	data, err := json.Marshal(output)
	if err != nil {
		fmt.Fprintf(stderr, "encode result: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}
