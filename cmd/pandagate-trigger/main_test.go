package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout map[string]any
		wantStderr string
	}{
		{
			name:       "passes message through",
			args:       []string{`{"id":"doc-1"}`, `{}`},
			wantCode:   0,
			wantStdout: map[string]any{"id": "doc-1"},
		},
		{
			name:       "missing message argument",
			args:       nil,
			wantCode:   1,
			wantStderr: "missing required `message` argument",
		},
		{
			name:       "missing context argument",
			args:       []string{`{"id":"doc-1"}`},
			wantCode:   1,
			wantStderr: "missing `context` argument",
		},
		{
			name:       "invalid message json",
			args:       []string{`{broken`, `{}`},
			wantCode:   1,
			wantStderr: "invalid message JSON",
		},
		{
			name:       "invalid context json",
			args:       []string{`{}`, `{broken`},
			wantCode:   1,
			wantStderr: "invalid context JSON",
		},
		{
			name:     "null message exits non-zero",
			args:     []string{`null`, `{}`},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
			if tt.wantStdout != nil {
				var out map[string]any
				if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
					t.Fatalf("stdout %q is not JSON: %v", stdout.String(), err)
				}
				for k, v := range tt.wantStdout {
					if out[k] != v {
						t.Errorf("stdout[%q] = %v, want %v", k, out[k], v)
					}
				}
			}
		})
	}
}
