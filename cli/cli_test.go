package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/reo/cli/cmd"
)

func TestRunWithConfiguration(t *testing.T) {
	t.Setenv("REO_PATH", "")

	scripts := t.TempDir()
	if err := os.WriteFile(filepath.Join(scripts, "hello.reo"), []byte(`say "hi from " + "config".`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		script string
		yaml   string
	}{
		{name: "script", script: `let path be ["` + scripts + `"].`},
		{name: "yaml", yaml: "path: [" + scripts + "]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			f := files{
				script: filepath.Join(dir, "config.reo"),
				yaml:   filepath.Join(dir, "config.yaml"),
				cache:  dir,
			}

			if tt.script != "" {
				if err := os.WriteFile(f.script, []byte(tt.script), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			if tt.yaml != "" {
				if err := os.WriteFile(f.yaml, []byte(tt.yaml), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var out bytes.Buffer

			ctx := cmd.WithStreams(t.Context(), cmd.Streams{Out: &out, Err: &out})

			exit := func(code int) { t.Fatalf("exit(%d)", code) }

			if err := run(ctx, exit, f, "hello"); err != nil {
				t.Fatalf("run() error = %v\n%s", err, out.String())
			}

			if got := out.String(); got != "hi from config\n" {
				t.Errorf("output = %q", got)
			}
		})
	}
}

func TestSearchPath(t *testing.T) {
	a, b, c := t.TempDir(), t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	t.Setenv("REO_PATH", c+string(os.PathListSeparator)+missing)

	got := searchPath([]string{a, b})

	want := []string{a, b, c}
	if !slices.Equal(got, want) {
		t.Errorf("searchPath() = %v, want %v", got, want)
	}
}

func TestLogConfigScan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"--log-level", "debug",
		"--log-format=text",
		"--no-log-pretty",
		"--log-caller=true",
		"run", "--log-level=-1",
	})

	if f.Level != "-1" || f.Format != "text" || f.Pretty || !f.Caller {
		t.Errorf("scan() = %+v", f)
	}

	f = logConfig{Pretty: true}
	f.scan([]string{"--no-log-pretty=false", "--log-level", "--log-caller"})

	if !f.Pretty || f.Level != "" || !f.Caller {
		t.Errorf("scan() = %+v", f)
	}
}
