package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args and returns what it printed
// through cmd.OutOrStdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"simulate", "check", "render", "cache", "config", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestConfigShowUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridnet.toml")
	if err := os.WriteFile(path, []byte("[check]\nrounds = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRIDNET_CONFIG", path)

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "rounds = 7") {
		t.Errorf("config show output missing override:\n%s", out)
	}

	out, err = execute(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridnet.toml")
	if err := os.WriteFile(path, []byte("log_level = \"shout\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRIDNET_CONFIG", path)

	if _, err := execute(t, "config", "show"); err == nil {
		t.Error("expected an error for an invalid config")
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridnet.toml")
	content := "[cache]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRIDNET_CONFIG", path)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "cache") {
		t.Errorf("cache path = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Setenv("GRIDNET_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "gridnet") {
			t.Errorf("completion %s does not mention gridnet", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
