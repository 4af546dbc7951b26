package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqtracks/internal/config"
	"github.com/matzehuels/seqtracks/pkg/cache"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	want := []string{"render", "view", "serve", "sources", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetArgs([]string{"render", "P05067", "-f", "pdf"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Execute() error = %v, want unknown format", err)
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := fileCacheDir(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("fileCacheDir() = %q, want %q", dir, want)
	}

	cfg := config.Default()
	cfg.Cache.Dir = "/srv/cache"
	if dir, _ := fileCacheDir(cfg); dir != "/srv/cache" {
		t.Errorf("explicit dir ignored: %q", dir)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = fc.Set(context.Background(), cache.Key("feed", "https://x/1"), []byte("{}"), 0)
	_ = fc.Set(context.Background(), cache.Key("feed", "https://x/2"), []byte("{}"), 0)

	t.Setenv("SEQTRACKS_CACHE_DIR", dir)
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetArgs([]string{"cache", "clear", "--config", filepath.Join(t.TempDir(), "none.toml")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, hit, _ := fc.Get(context.Background(), cache.Key("feed", "https://x/1")); hit {
		t.Error("entry survived cache clear")
	}
}

func TestSourcesTable(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []string{"smr"}
	cfg.Endpoints = map[string]string{"smr": "http://local/{accession}"}

	out := sourcesTable(cfg)
	for _, want := range []string{"features", "smr", "http://local/{accession}", "Endpoint"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeFormats(t *testing.T) {
	mem, res := loadedSurface(t)

	for _, f := range []string{formatText, formatJSON, formatDOT} {
		t.Run(f, func(t *testing.T) {
			data, err := encode(context.Background(), mem, res.Accession, renderOpts{format: f, width: 80})
			if err != nil {
				t.Fatalf("encode() error: %v", err)
			}
			if !bytes.Contains(data, []byte("Domains")) {
				t.Errorf("output lacks track label:\n%s", data)
			}
			if f == formatJSON && !json.Valid(data) {
				t.Error("invalid JSON")
			}
		})
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, log.InfoLevel).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), "seqtracks") {
				t.Errorf("%s script does not mention seqtracks", shell)
			}
		})
	}
}
