package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/parttree/pkg/cache"
	"github.com/matzehuels/parttree/pkg/errors"
)

const robotBOM = `
[[parts]]
id = 1
name = "Robot"
ipn = "R-1"
assembly = true

[[parts]]
id = 2
name = "Arm"
assembly = true

[[parts]]
id = 3
name = "Screw"

[[parts]]
id = 4
name = "Wrist"
assembly = true

[[items]]
parent = 1
child = 2
quantity = 2.0

[[items]]
parent = 2
child = 3
quantity = 4.0

[[items]]
parent = 2
child = 4
quantity = 1.0

[[items]]
parent = 4
child = 2
quantity = 1.0
`

// testEnv holds a temp dir with a config file and a BOM file.
type testEnv struct {
	dir    string
	config string
	bom    string
}

func newTestEnv(t *testing.T, config string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		bom:    filepath.Join(dir, "robot.toml"),
	}
	if config == "" {
		config = "[cache]\nbackend = \"none\"\n"
	}
	writeTestFile(t, env.config, config)
	writeTestFile(t, env.bom, robotBOM)

	prev := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = prev })
	return env
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.getenv = func(string) string { return "" }

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestDiagramFromBOM(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "diagram", "--bom", env.bom)
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	for _, want := range []string{"graph TD", `P1["Robot\nR-1"]`, "P1 -->|2| P2", "P2 -->|4| P3", "P2 -->|1| P4", "P4 -.->|1| P2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagramFlagsOverrideConfig(t *testing.T) {
	env := newTestEnv(t, "direction = \"LR\"\nmax_depth = 1\n[cache]\nbackend = \"none\"\n")

	out, err := env.run(t, "diagram", "--bom", env.bom)
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	if !strings.HasPrefix(out, "graph LR") {
		t.Errorf("config direction not applied:\n%s", out)
	}
	if strings.Contains(out, "P3") {
		t.Errorf("config depth 1 should stop at the arm:\n%s", out)
	}

	path := filepath.Join(env.dir, "robot.mmd")
	if _, err := env.run(t, "diagram", "--bom", env.bom, "--direction", "bt", "--depth", "0", "-o", path); err != nil {
		t.Fatalf("diagram -o: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "graph BT\nP1[\"Robot\\nR-1\"]" {
		t.Errorf("file = %q", got)
	}
}

func TestDiagramDepthClamped(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "diagram", "--bom", env.bom, "--depth", "30")
	if err != nil {
		t.Fatalf("diagram --depth 30: %v", err)
	}
	if !strings.Contains(out, "P3") {
		t.Errorf("depth above the limit should expand the whole BOM:\n%s", out)
	}

	out, err = env.run(t, "diagram", "--bom", env.bom, "--depth=-4")
	if err != nil {
		t.Fatalf("diagram --depth=-4: %v", err)
	}
	if got := strings.TrimSpace(out); got != "graph TD\nP1[\"Robot\\nR-1\"]" {
		t.Errorf("negative depth should render the root only, got %q", got)
	}
}

func TestDiagramErrors(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no host", []string{"diagram", "42"}, errors.ErrCodeInvalidInput},
		{"unknown part", []string{"diagram", "99", "--bom", env.bom}, errors.ErrCodePartNotFound},
		{"missing file", []string{"diagram", "--bom", filepath.Join(env.dir, "nope.toml")}, errors.ErrCodeNotFound},
		{"bad direction", []string{"diagram", "--bom", env.bom, "--direction", "up"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDiagramFileFlagsExclusive(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.run(t, "diagram", "--bom", env.bom, "--tree", "x.json"); err == nil {
		t.Error("--bom and --tree together should fail")
	}
}

func TestFetchToStdoutAndBack(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "fetch", "--bom", env.bom, "-o", "-")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("fetch output is not JSON: %v\n%s", err, out)
	}
	if doc["name"] != "Robot" {
		t.Errorf("name = %v", doc["name"])
	}

	saved := filepath.Join(env.dir, "saved.json")
	if _, err := env.run(t, "fetch", "--bom", env.bom, "-o", saved); err != nil {
		t.Fatalf("fetch -o: %v", err)
	}
	diagram, err := env.run(t, "diagram", "--tree", saved)
	if err != nil {
		t.Fatalf("diagram --tree: %v", err)
	}
	if !strings.Contains(diagram, "P4 -.->|1| P2") {
		t.Errorf("round-tripped diagram lost the cycle:\n%s", diagram)
	}
}

func TestRenderWritesFormats(t *testing.T) {
	env := newTestEnv(t, "")
	base := filepath.Join(env.dir, "out", "robot")

	if _, err := env.run(t, "render", "--bom", env.bom, "-f", "mermaid,dot,json,outline", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{"mmd", "dot", "json", "txt"} {
		info, err := os.Stat(base + "." + ext)
		if err != nil {
			t.Errorf("missing %s output: %v", ext, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

func TestRenderSingleFormatPath(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(env.dir, "robot.dot")

	if _, err := env.run(t, "render", "--bom", env.bom, "-f", "dot", "-o", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output = %q", data)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run(t, "render", "--bom", env.bom, "-f", "pdf")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want invalid input", err)
	}
}

func TestOutlinePlain(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run(t, "outline", "--bom", env.bom, "--plain")
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	for _, want := range []string{"Robot", "2 × Arm", "4 × Screw", "1 × Wrist", "↻ 1 × Arm"} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q:\n%s", want, out)
		}
	}
}

func TestBOMRoots(t *testing.T) {
	env := newTestEnv(t, "")
	other := filepath.Join(env.dir, "two.toml")
	writeTestFile(t, other, `
[[parts]]
id = "a"
name = "Alpha"

[[parts]]
id = "b"
name = "Beta"
`)

	out, err := env.run(t, "bom", "roots", other)
	if err != nil {
		t.Fatalf("bom roots: %v", err)
	}
	if out != "a\tAlpha\nb\tBeta\n" {
		t.Errorf("roots = %q", out)
	}

	_, err = env.run(t, "diagram", "--bom", other)
	if !errors.Is(err, errors.ErrCodeInvalidPartID) {
		t.Errorf("ambiguous root error = %v", err)
	}
}

func TestBOMLint(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.run(t, "bom", "lint", env.bom); err != nil {
		t.Errorf("clean BOM: %v", err)
	}

	broken := filepath.Join(env.dir, "broken.toml")
	writeTestFile(t, broken, robotBOM+`
[[items]]
parent = 1
child = 404
`)
	_, err := env.run(t, "bom", "lint", broken)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("broken BOM error = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	env := newTestEnv(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheLocation(t *testing.T) {
	c := New(io.Discard, LogInfo)

	c.Config.Cache.Backend = "none"
	if got := c.cacheLocation(); got != "disabled" {
		t.Errorf("none = %q", got)
	}
	c.Config.Cache.Backend = "redis"
	c.Config.Cache.RedisAddr = "cache:6379"
	c.Config.Cache.RedisDB = 2
	if got := c.cacheLocation(); got != "redis://cache:6379/2" {
		t.Errorf("redis = %q", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "part-42", "part-42"},
		{"out/robot", "part-42", "out/robot"},
		{"robot.svg", "part-42", "robot"},
		{"robot.MMD", "part-42", "robot"},
		{"robot.v2", "part-42", "robot.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}
