package dashboard

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/db"
)

func TestConfigFromCLI(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := "gemini:\n  model: gemini-test\nreview:\n  delay: 1s\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("config", "", "")
	set.String("db", "", "")
	set.Duration("delay", 0, "")
	if err := set.Parse([]string{"--config", cfgPath, "--db", filepath.Join(dir, "x.db"), "--delay", "5s"}); err != nil {
		t.Fatal(err)
	}
	c := cli.NewContext(cli.NewApp(), set, nil)

	cfg, err := ConfigFromCLI(c)
	if err != nil {
		t.Fatalf("ConfigFromCLI() failed: %v", err)
	}
	if cfg.Gemini.Model != "gemini-test" {
		t.Errorf("model = %q, want value from file", cfg.Gemini.Model)
	}
	if cfg.Review.Delay != 5*time.Second {
		t.Errorf("delay = %v, want flag override", cfg.Review.Delay)
	}
	if cfg.DBPath != filepath.Join(dir, "x.db") {
		t.Errorf("db = %q", cfg.DBPath)
	}
	if cfg.Review.LoadTimeout != models.DefaultLoadTimeout {
		t.Errorf("load timeout = %v, want default", cfg.Review.LoadTimeout)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "tracker.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	ctrl := Build(models.DefaultConfig(), database, nil, nil)
	ctrl.Out = io.Discard
	ctrl.Status = io.Discard
	ctx := context.Background()

	if _, err := ctrl.AddLink(ctx, "https://a.edu/s1"); err != nil {
		t.Fatal(err)
	}
	links, err := ctrl.Links(ctx)
	if err != nil || len(links) != 1 {
		t.Fatalf("Links() = %+v, %v", links, err)
	}
	if ctrl.Batch == nil || ctrl.Reviewer == nil || ctrl.History == nil {
		t.Error("controller not fully wired")
	}
}
