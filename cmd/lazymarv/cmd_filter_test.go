package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runFilterCmd(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := fn(cmd, args); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return strings.TrimSpace(out.String())
}

func TestFilterEncodeDescribe(t *testing.T) {
	token := runFilterCmd(t, runFilterEncode, `{"and":[{"name":"tags","op":"has","val":"indoor"}]}`)
	if token == "" {
		t.Fatal("expected a token")
	}

	// the single-child and collapses into its leaf
	desc := runFilterCmd(t, runFilterDescribe, token)
	if desc != `tags has "indoor"` {
		t.Errorf("unexpected description %q", desc)
	}

	pretty := runFilterCmd(t, runFilterDecode, token)
	if !strings.Contains(pretty, `"name": "tags"`) || strings.Contains(pretty, `"and"`) {
		t.Errorf("unexpected decoded filter:\n%s", pretty)
	}
}

func TestFilterEncodeEmpty(t *testing.T) {
	if token := runFilterCmd(t, runFilterEncode, `{}`); token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
	if desc := runFilterCmd(t, runFilterDescribe, ""); desc != "no filter" {
		t.Errorf("expected 'no filter', got %q", desc)
	}
}

func TestFilterEncodeRejectsBadJSON(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	if err := runFilterEncode(cmd, []string{`{"and":`}); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestTokenJSON(t *testing.T) {
	token := runFilterCmd(t, runFilterEncode, `{"name":"size","op":">=","val":1024}`)
	got, err := tokenJSON(token)
	if err != nil {
		t.Fatalf("tokenJSON failed: %v", err)
	}
	if got != `{"name":"size","op":">=","val":1024}` {
		t.Errorf("unexpected JSON %s", got)
	}
}
