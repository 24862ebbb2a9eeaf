package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func runInitCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

func TestInit_CreatesFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	out := runInitCmd(t)
	if !strings.Contains(out, "created leadlens.yaml") || !strings.Contains(out, "created team.yaml") {
		t.Errorf("unexpected output: %s", out)
	}

	for _, path := range []string{"leadlens.yaml", "team.yaml"} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			t.Errorf("%s is not valid yaml: %v", path, err)
		}
	}
}

func TestInit_SkipsExisting(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("leadlens.yaml", []byte("source: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := runInitCmd(t)
	if !strings.Contains(out, "skipped leadlens.yaml") {
		t.Errorf("expected skip notice, got: %s", out)
	}

	data, err := os.ReadFile("leadlens.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "source: {}\n" {
		t.Error("existing file was overwritten without --force")
	}
}

func TestInit_Force(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("leadlens.yaml", []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := runInitCmd(t, "--force")
	if !strings.Contains(out, "created leadlens.yaml") {
		t.Errorf("expected overwrite with --force, got: %s", out)
	}

	data, err := os.ReadFile("leadlens.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "source:") {
		t.Error("file was not replaced by the template")
	}
}
