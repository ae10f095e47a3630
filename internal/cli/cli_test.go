package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morozRed/railsnav/internal/audit"
)

const ordersController = `module Cms
  class OrdersController < ApplicationController
    def index
      @orders = Order.all
    end

    def show
    end
  end
end
`

func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main\n")
	mustWriteFile(t, filepath.Join(root, "app", "controllers", "cms", "orders_controller.rb"), ordersController)
	mustWriteFile(t, filepath.Join(root, "app", "views", "cms", "orders", "index.html.erb"), "<h1>Orders</h1>\n")
	return root
}

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestToggleControllerToView(t *testing.T) {
	root := newWorkspace(t)
	controller := filepath.Join(root, "app", "controllers", "cms", "orders_controller.rb")

	stdout, stderr, err := runCommand(t, "", "toggle", controller, "--line", "4", "--column", "7")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	view := filepath.Join(root, "app", "views", "cms", "orders", "index.html.erb")
	if strings.TrimSpace(stdout) != view+":1:1" {
		t.Fatalf("expected %s:1:1, got %q", view, stdout)
	}
	if strings.TrimSpace(stderr) != "Opened view: index" {
		t.Fatalf("expected a single confirmation message, got %q", stderr)
	}
}

func TestToggleViewToControllerJSON(t *testing.T) {
	root := newWorkspace(t)
	view := filepath.Join(root, "app", "views", "cms", "orders", "index.html.erb")

	stdout, _, err := runCommand(t, "", "toggle", view, "--json")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	var out ToggleOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output %q: %v", stdout, err)
	}
	if !out.OK || out.Result == nil || out.Result.Position.Line != 3 {
		t.Fatalf("expected jump to line 3, got %+v", out)
	}
	if out.Message != "Jumped to action: index" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestToggleReadsUnsavedBufferFromStdin(t *testing.T) {
	root := newWorkspace(t)
	controller := filepath.Join(root, "app", "controllers", "cms", "orders_controller.rb")
	mustWriteFile(t, filepath.Join(root, "app", "views", "cms", "orders", "draft.html.erb"), "<p/>\n")
	buffer := "class Cms::OrdersController\n  def draft\n    x\n  end\nend\n"

	offset := strings.Index(buffer, "x")
	stdout, _, err := runCommand(t, buffer, "toggle", controller, "--stdin", "--offset", fmt.Sprint(offset))
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(stdout, "draft.html.erb") {
		t.Fatalf("expected draft view, got %q", stdout)
	}
}

func TestToggleErrorsAsJSON(t *testing.T) {
	root := newWorkspace(t)
	controller := filepath.Join(root, "app", "controllers", "cms", "orders_controller.rb")

	stdout, _, err := runCommand(t, "", "toggle", controller, "--json", "--line", "8")
	if err == nil || !IsReported(err) {
		t.Fatalf("expected reported error, got %v", err)
	}
	var out ToggleOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output %q: %v", stdout, err)
	}
	if out.OK || out.Kind != "not_found" || !strings.Contains(out.Message, "cms/orders#show") {
		t.Fatalf("expected not_found for cms/orders#show, got %+v", out)
	}
}

func TestCandidatesListsPrecedenceOrder(t *testing.T) {
	root := newWorkspace(t)
	controller := filepath.Join(root, "app", "controllers", "cms", "orders_controller.rb")

	stdout, _, err := runCommand(t, "", "candidates", controller, "--action", "index", "--json")
	if err != nil {
		t.Fatalf("candidates failed: %v", err)
	}
	var out CandidatesOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output %q: %v", stdout, err)
	}
	if len(out.Roots) != 3 || len(out.Candidates) != 27 {
		t.Fatalf("expected 3 roots and 27 candidates, got %d and %d", len(out.Roots), len(out.Candidates))
	}
	if out.Candidates[0].State != "exists" || out.Selected != out.Candidates[0].Path {
		t.Fatalf("expected first candidate selected, got %+v", out.Candidates[0])
	}
	if out.Candidates[9].Root != filepath.Join(root, "domains", "cms") {
		t.Fatalf("expected domains root after workspace extensions, got %s", out.Candidates[9].Root)
	}
}

func TestActionsCommand(t *testing.T) {
	root := newWorkspace(t)
	controller := filepath.Join(root, "app", "controllers", "cms", "orders_controller.rb")

	stdout, _, err := runCommand(t, "", "actions", controller)
	if err != nil {
		t.Fatalf("actions failed: %v", err)
	}
	for _, expected := range []string{
		"actions for cms/orders (2)",
		"- index [public] line 3 -> " + filepath.Join("app", "views", "cms", "orders", "index.html.erb"),
		"- show [public] line 7 -> no view",
	} {
		if !strings.Contains(stdout, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, stdout)
		}
	}
}

func TestAuditStrict(t *testing.T) {
	root := newWorkspace(t)

	stdout, _, err := runCommand(t, "", "audit", root, "--json", "--strict")
	if err == nil || !IsReported(err) {
		t.Fatalf("expected strict audit to fail, got %v", err)
	}
	var report audit.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid JSON output %q: %v", stdout, err)
	}
	if len(report.Missing) != 1 || report.Missing[0] != "cms/orders#show" {
		t.Fatalf("expected cms/orders#show missing, got %v", report.Missing)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCommand(t, "", "version")
	if err != nil || stdout != "railsnav test\n" {
		t.Fatalf("unexpected version output %q (%v)", stdout, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
