package audit

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/morozRed/railsnav/internal/convention"
)

func TestRunReportsMissingViews(t *testing.T) {
	ws := t.TempDir()
	mustWriteFile(t, filepath.Join(ws, "domains", "cms", "app", "controllers", "cms", "orders_controller.rb"), `module Cms
  class OrdersController < ApplicationController
    def index
    end

    def show
    end

    private

    def load_order
    end
  end
end
`)
	mustWriteFile(t, filepath.Join(ws, "domains", "cms", "app", "views", "cms", "orders", "index.html.erb"), "<p/>")
	mustWriteFile(t, filepath.Join(ws, "app", "controllers", "health_controller.rb"), `class HealthController < ApplicationController
  def check
  end
end
`)
	mustWriteFile(t, filepath.Join(ws, "app", "views", "health", "check.json.jbuilder"), "json.ok true")
	mustWriteFile(t, filepath.Join(ws, "vendor", "gems", "app", "controllers", "gem_controller.rb"), "class GemController\n  def x\n  end\nend\n")
	mustWriteFile(t, filepath.Join(ws, "legacy", "app", "controllers", "old_controller.rb"), "class OldController\n  def x\n  end\nend\n")
	mustWriteFile(t, filepath.Join(ws, ".gitignore"), "legacy/\n")

	report, err := Run(context.Background(), convention.Default(), ws, Settings{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Controllers) != 2 {
		t.Fatalf("expected 2 controllers, got %+v", report.Controllers)
	}
	health := report.Controllers[0]
	if health.Identity != "health" || len(health.Actions) != 1 {
		t.Fatalf("unexpected health controller %+v", health)
	}
	if health.Actions[0].View != filepath.Join("app", "views", "health", "check.json.jbuilder") {
		t.Fatalf("unexpected health view %q", health.Actions[0].View)
	}

	orders := report.Controllers[1]
	if orders.Identity != "cms/orders" || len(orders.Actions) != 2 {
		t.Fatalf("expected public cms/orders actions only, got %+v", orders)
	}
	if !reflect.DeepEqual(report.Missing, []string{"cms/orders#show"}) {
		t.Fatalf("expected cms/orders#show to be missing, got %v", report.Missing)
	}
}

func TestRunIncludesPrivateWhenAsked(t *testing.T) {
	ws := t.TempDir()
	mustWriteFile(t, filepath.Join(ws, "app", "controllers", "orders_controller.rb"), `class OrdersController
  def index
  end

  private

  def helper
  end
end
`)

	report, err := Run(context.Background(), convention.Default(), ws, Settings{IncludePrivate: true, Ignore: []string{"engines/"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Controllers) != 1 || len(report.Controllers[0].Actions) != 2 {
		t.Fatalf("expected both actions, got %+v", report.Controllers)
	}
	// Private helpers never count as missing views.
	if !reflect.DeepEqual(report.Missing, []string{"orders#index"}) {
		t.Fatalf("unexpected missing list %v", report.Missing)
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

func TestRunRejectsInvalidOptions(t *testing.T) {
	opts := convention.Default()
	opts.AppDir = ""
	if _, err := Run(context.Background(), opts, t.TempDir(), Settings{}); err == nil {
		t.Fatal("expected options without an app dir to be rejected")
	}
}
