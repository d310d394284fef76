package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/gallery"
	"github.com/matzehuels/brickwall/pkg/wall"
)

const testManifest = `width = 1000

[layout]
margin = 3

[[items]]
id = "beach.jpg"
width = 600
height = 400

[[items]]
id = "dunes.jpg"
width = 500
height = 400
focus_y = 4

[[items]]
id = "pier.jpg"
width = 300
height = 400
`

// newTestCLI returns a CLI writing to a buffer, with the cache under a
// temporary directory.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("BRICKWALL_REDIS_ADDR", "")

	var out bytes.Buffer
	c := &CLI{Logger: log.New(io.Discard), Out: &out}
	return c, &out
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trip.toml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFocusPoints(t *testing.T) {
	tests := []struct {
		in      string
		want    wall.FocusPoints
		wantErr bool
	}{
		{"5x5", wall.FocusPoints{X: 5, Y: 5}, false},
		{"3X2", wall.FocusPoints{X: 3, Y: 2}, false},
		{"4", wall.FocusPoints{X: 4, Y: 4}, false},
		{"x3", wall.FocusPoints{}, true},
		{"5x", wall.FocusPoints{}, true},
		{"abc", wall.FocusPoints{}, true},
	}
	for _, tt := range tests {
		got, err := parseFocusPoints(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFocusPoints(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseFocusPoints(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	c, out := newTestCLI(t)
	manifest := writeManifest(t)

	if err := run(t, c, "layout", manifest); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(strings.TrimSuffix(manifest, ".toml") + ".layout.json")
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	var res struct {
		Width float64 `json:"width"`
		Rows  []struct {
			Items []int `json:"items"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Width != 1000 {
		t.Errorf("width = %v", res.Width)
	}
	want := [][]int{{0}, {1, 2}}
	got := make([][]int, len(res.Rows))
	for i, r := range res.Rows {
		got[i] = r.Items
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Layout complete") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLayoutCommandFlagOverrides(t *testing.T) {
	c, out := newTestCLI(t)
	manifest := writeManifest(t)

	if err := run(t, c, "layout", manifest, "-o", "-", "--width", "2000", "--line-height", "200"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	var res struct {
		Width      float64 `json:"width"`
		LineHeight float64 `json:"line_height"`
		Config     struct {
			Margin float64 `json:"margin"`
		} `json:"config"`
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not layout JSON: %v\n%s", err, out.String())
	}
	if res.Width != 2000 || res.LineHeight != 200 {
		t.Errorf("width = %v line_height = %v", res.Width, res.LineHeight)
	}
	if res.Config.Margin != 3 {
		t.Errorf("unchanged flag overrode manifest: margin = %v", res.Config.Margin)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	c, _ := newTestCLI(t)

	err := run(t, c, "layout", filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing manifest: code = %v", errors.GetCode(err))
	}

	manifest := writeManifest(t)
	err = run(t, c, "layout", manifest, "--width=-5")
	if !errors.Is(err, errors.ErrCodeInvalidWidth) {
		t.Errorf("negative width: code = %v (%v)", errors.GetCode(err), err)
	}

	err = run(t, c, "layout", manifest, "--line-height", "tall")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad line height: code = %v (%v)", errors.GetCode(err), err)
	}
}

func TestRenderCommand(t *testing.T) {
	c, out := newTestCLI(t)
	manifest := writeManifest(t)
	outDir := filepath.Join(t.TempDir(), "out")

	if err := run(t, c, "render", manifest, "-f", "svg,json,dot", "-o", outDir, "--markers", "--reveal"); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"trip.svg", "trip.json", "trip.dot"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	svg, _ := os.ReadFile(filepath.Join(outDir, "trip.svg"))
	if !bytes.Contains(svg, []byte(`class="focus"`)) {
		t.Error("svg has no focus markers")
	}
	if !bytes.Contains(svg, []byte("animation-delay")) {
		t.Error("svg has no reveal animation")
	}
	if !strings.Contains(out.String(), "Rendered trip.toml") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	c, _ := newTestCLI(t)
	err := run(t, c, "render", writeManifest(t), "-f", "png")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func TestProbeCommand(t *testing.T) {
	c, out := newTestCLI(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a, 60, 40)
	writePNG(t, b, 30, 40)
	manifest := filepath.Join(dir, "gallery.toml")

	if err := run(t, c, "probe", a, b, "-o", manifest, "--width", "900"); err != nil {
		t.Fatalf("probe: %v", err)
	}

	g, err := gallery.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	want := &gallery.Gallery{
		Width:  900,
		Layout: wall.DefaultConfig(),
		Items: []wall.Item{
			{ID: a, Width: 60, Height: 40},
			{ID: b, Width: 30, Height: 40},
		},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Wrote 2 items") {
		t.Errorf("output = %q", out.String())
	}
}

func TestProbeCommandStdout(t *testing.T) {
	c, out := newTestCLI(t)
	img := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, img, 60, 40)

	if err := run(t, c, "probe", img); err != nil {
		t.Fatalf("probe: %v", err)
	}
	g, err := gallery.Read(bytes.NewReader(out.Bytes()), gallery.FormatTOML)
	if err != nil {
		t.Fatalf("stdout is not a manifest: %v\n%s", err, out.String())
	}
	if len(g.Items) != 1 || g.Items[0].Width != 60 {
		t.Errorf("items = %+v", g.Items)
	}
}

func TestProbeCommandAppend(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	manifest := writeManifest(t)
	img := filepath.Join(dir, "new.png")
	writePNG(t, img, 20, 10)

	if err := run(t, c, "probe", img, "-o", manifest, "--append"); err != nil {
		t.Fatalf("probe: %v", err)
	}
	g, err := gallery.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Items) != 4 || g.Width != 1000 {
		t.Errorf("append produced %d items, width %v", len(g.Items), g.Width)
	}

	if err := run(t, c, "probe", img, "--append"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("--append without --output: %v", err)
	}
}

func TestFocusCommandSet(t *testing.T) {
	c, out := newTestCLI(t)
	manifest := writeManifest(t)

	if err := run(t, c, "focus", manifest, "beach.jpg", "--set", "1,3"); err != nil {
		t.Fatalf("focus: %v", err)
	}
	g, err := gallery.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	it, _ := g.Item("beach.jpg")
	if it.FocusX == nil || it.FocusY == nil || *it.FocusX != 1 || *it.FocusY != 3 {
		t.Errorf("focus = %v,%v", it.FocusX, it.FocusY)
	}
	if !strings.Contains(out.String(), "set to (1,3)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFocusCommandErrors(t *testing.T) {
	c, _ := newTestCLI(t)
	manifest := writeManifest(t)

	if err := run(t, c, "focus", manifest, "nope.jpg", "--set", "1,1"); !errors.Is(err, errors.ErrCodeItemNotFound) {
		t.Errorf("unknown item: %v", err)
	}
	if err := run(t, c, "focus", manifest, "beach.jpg", "--set", "9,9"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out of grid: %v", err)
	}
	if err := run(t, c, "focus", manifest, "beach.jpg", "--set", "one"); err == nil {
		t.Error("malformed --set should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	c, out := newTestCLI(t)
	manifest := writeManifest(t)

	if err := run(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	dir := strings.TrimSpace(out.String())
	if filepath.Base(dir) != appName {
		t.Errorf("cache path = %q", dir)
	}

	if err := run(t, c, "layout", manifest); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("output = %q", out.String())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir not empty: %v", entries)
	}
}

func TestCompletionCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := run(t, c, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("completion script does not mention the command")
	}
}
