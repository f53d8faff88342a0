package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/icocloud/internal/testutil"
)

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func writePLY(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := testutil.ASCII(testutil.XYZ, testutil.Rows(3, [3]float64{0, 0, 0}, [3]float64{1, 2, 3}))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := writePLY(t, dir, "scan.ply")

	out, err := execute(t, "convert", "--lod", "0", "--radius", "0.5", in)
	if err != nil {
		t.Fatalf("convert failed: %v\n%s", err, out)
	}

	objPath := filepath.Join(dir, "scan_LOD0_ico.obj")
	data, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if got := strings.Count(string(data), "\nf "); got != 40 {
		t.Errorf("expected 40 faces, got %d", got)
	}
	if !strings.Contains(out, "spheres: 2") {
		t.Errorf("expected sphere count in output, got:\n%s", out)
	}

	// a second run refuses to replace the file
	if _, err := execute(t, "convert", in); err == nil {
		t.Error("expected error when output exists")
	}
	if _, err := execute(t, "convert", "-f", in); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}
}

func TestConvertCommand_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	in := writePLY(t, dir, "scan.ply")

	if _, err := execute(t, "convert", "--crop-min", "5", "--crop-max", "1", in); err == nil {
		t.Error("expected inverted crop to fail")
	}
	if _, err := os.Stat(filepath.Join(dir, "scan_LOD0_ico.obj")); err == nil {
		t.Error("no output should be written for invalid settings")
	}
}

func TestInfoCommand(t *testing.T) {
	in := writePLY(t, t.TempDir(), "scan.ply")

	out, err := execute(t, "info", in)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Format:   ascii 1.0", "Vertices: 2", "vertex", "Height (Y) quantiles:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFindPLY(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PLY", "a.ply", "notes.txt", "c.ply.bak"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.ply"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := findPLY(dir)
	if err != nil {
		t.Fatalf("findPLY failed: %v", err)
	}
	want := []string{filepath.Join(dir, "a.ply"), filepath.Join(dir, "b.PLY")}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("findPLY = %v, want %v", files, want)
	}
}

func TestDiscoverInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := discoverInput(dir); err == nil {
		t.Error("expected error for empty directory")
	}

	only := writePLY(t, dir, "one.ply")
	got, err := discoverInput(dir)
	if err != nil || got != only {
		t.Errorf("discoverInput = %q, %v; want %q", got, err, only)
	}

	writePLY(t, dir, "two.ply")
	if _, err := discoverInput(dir); err == nil || !strings.Contains(err.Error(), "one.ply, two.ply") {
		t.Errorf("expected ambiguity error naming both files, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icocloud.yaml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if !strings.Contains(string(data), "sphere_radius: 0.01") {
		t.Errorf("unexpected config contents:\n%s", data)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("expected error when config exists")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Errorf("forced init failed: %v", err)
	}
}
