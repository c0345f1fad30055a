package fontsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/nantokaworks/fontbridge/internal/testutil"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func faceTables(family string) map[string][]byte {
	return map[string][]byte{
		"name": testutil.NameTable(testutil.Win(testutil.LangEnglishUS, 1, family)),
	}
}

func staticRegistry(handles ...Handle) Registry {
	return RegistryFunc(func(context.Context) ([]Handle, error) {
		return handles, nil
	})
}

func displayPaths(handles []Handle) []string {
	res := make([]string, len(handles))
	for i, h := range handles {
		res[i] = h.DisplayPath()
	}
	return res
}

func TestListFontsDeduplicatesAliases(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "a.ttf")
	writeFile(t, font, goregular.TTF)
	other := filepath.Join(dir, "b.ttf")
	writeFile(t, other, goregular.TTF)

	aliases := []Handle{
		FileHandle(font, 0),
		FileHandle(filepath.Join(dir, ".", "a.ttf"), 0),
		FileHandle(filepath.Join(dir, "sub", "..", "a.ttf"), 1),
		FileHandle(other, 0),
	}
	link := filepath.Join(dir, "link.ttf")
	if err := os.Symlink(font, link); err == nil {
		aliases = append(aliases, FileHandle(link, 0))
	}

	got, err := ListFonts(context.Background(), staticRegistry(aliases...))
	if err != nil {
		t.Fatalf("ListFonts: %v", err)
	}
	if diff := cmp.Diff([]string{font, other}, displayPaths(got)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if got[0].FaceIndex != 0 {
		t.Errorf("first alias should win, got face %d", got[0].FaceIndex)
	}
}

func TestListFontsKeepsOnlyFirstInMemoryFont(t *testing.T) {
	first := []byte("first")
	reg := staticRegistry(
		MemoryHandle(first, 0),
		MemoryHandle([]byte("second"), 0),
	)
	got, err := ListFonts(context.Background(), reg)
	if err != nil {
		t.Fatalf("ListFonts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d handles, want 1", len(got))
	}
	data, err := got[0].Bytes()
	if err != nil || string(data) != "first" {
		t.Errorf("Bytes() = %q, %v; want first blob", data, err)
	}
	if got[0].DisplayPath() != MemorySentinel || got[0].FileName() != MemorySentinel {
		t.Errorf("in-memory handle reports %q / %q", got[0].DisplayPath(), got[0].FileName())
	}
}

func TestListFontsEmptyRegistry(t *testing.T) {
	got, err := ListFonts(context.Background(), staticRegistry())
	if err != nil {
		t.Fatalf("ListFonts: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

func TestListFontsRegistryFailure(t *testing.T) {
	cause := errors.New("fontconfig exploded")
	reg := RegistryFunc(func(context.Context) ([]Handle, error) { return nil, cause })

	_, err := ListFonts(context.Background(), reg)
	var enumErr *EnumerationError
	if !errors.As(err, &enumErr) {
		t.Fatalf("error %v is not an EnumerationError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap the cause", err)
	}
	if enumErr.Error() != "Error fetching font families: fontconfig exploded" {
		t.Errorf("message = %q", enumErr.Error())
	}

	if _, err := ListFonts(context.Background(), nil); !errors.As(err, &enumErr) {
		t.Errorf("nil registry error = %v", err)
	}
}

func TestMultiRegistry(t *testing.T) {
	a := staticRegistry(FileHandle("/a.ttf", 0))
	b := staticRegistry(MemoryHandle(nil, 0))
	got, err := MultiRegistry{a, b}.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if diff := cmp.Diff([]string{"/a.ttf", MemorySentinel}, displayPaths(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	failing := RegistryFunc(func(context.Context) ([]Handle, error) { return nil, errors.New("boom") })
	if _, err := (MultiRegistry{a, failing}).ListAll(context.Background()); err == nil {
		t.Errorf("expected failure from second registry")
	}
}

func TestDirRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Regular.TTF"), goregular.TTF)
	writeFile(t, filepath.Join(dir, "nested", "deeper", "b.otf"), goregular.TTF)
	writeFile(t, filepath.Join(dir, "pair.ttc"), testutil.Collection(faceTables("Zero"), faceTables("One")))
	writeFile(t, filepath.Join(dir, "web.woff2"), []byte("wOF2"))
	writeFile(t, filepath.Join(dir, "readme.txt"), []byte("hello"))

	reg := DirRegistry{Dirs: []string{dir, filepath.Join(dir, "does-not-exist")}}
	got, err := reg.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	type face struct {
		Path  string
		Index int
	}
	var faces []face
	for _, h := range got {
		faces = append(faces, face{h.Path(), h.FaceIndex})
	}
	sort.Slice(faces, func(i, j int) bool {
		if faces[i].Path != faces[j].Path {
			return faces[i].Path < faces[j].Path
		}
		return faces[i].Index < faces[j].Index
	})
	want := []face{
		{filepath.Join(dir, "Regular.TTF"), 0},
		{filepath.Join(dir, "nested", "deeper", "b.otf"), 0},
		{filepath.Join(dir, "pair.ttc"), 0},
	}
	sort.Slice(want, func(i, j int) bool {
		if want[i].Path != want[j].Path {
			return want[i].Path < want[j].Path
		}
		return want[i].Index < want[j].Index
	})
	if diff := cmp.Diff(want, faces); diff != "" {
		t.Errorf("faces mismatch (-want +got):\n%s", diff)
	}

	listed, err := ListFonts(context.Background(), reg)
	if err != nil {
		t.Fatalf("ListFonts: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("ListFonts returned %d handles, want 3", len(listed))
	}
}

func TestDirRegistryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirRegistry{Dirs: []string{t.TempDir()}}.ListAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseFcList(t *testing.T) {
	out := []byte("/usr/share/fonts/a.ttf\t0\n" +
		"/usr/share/fonts/cjk.ttc\t2\n" +
		"/usr/share/fonts/var.ttf\t65536\n" +
		"/usr/share/fonts/x11/misc.pcf.gz\t0\n" +
		"\n" +
		"/usr/share/fonts/noindex.otf\n")
	got := parseFcList(out)

	type face struct {
		Path  string
		Index int
	}
	var faces []face
	for _, h := range got {
		faces = append(faces, face{h.Path(), h.FaceIndex})
	}
	want := []face{
		{"/usr/share/fonts/a.ttf", 0},
		{"/usr/share/fonts/cjk.ttc", 2},
		{"/usr/share/fonts/var.ttf", 0},
		{"/usr/share/fonts/noindex.otf", 0},
	}
	if diff := cmp.Diff(want, faces); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFontconfigRegistryCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fc-list")
	writeFile(t, script, []byte("#!/bin/sh\nprintf '/fonts/a.ttf\\t0\\n/fonts/b.otf\\t0\\n'\n"))
	if err := os.Chmod(script, 0o755); err != nil {
		t.Fatal(err)
	}

	reg := FontconfigRegistry{Command: script}
	if !reg.Available() {
		t.Fatalf("stub not available")
	}
	got, err := reg.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if diff := cmp.Diff([]string{"/fonts/a.ttf", "/fonts/b.otf"}, displayPaths(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	failing := filepath.Join(dir, "fc-fail")
	writeFile(t, failing, []byte("#!/bin/sh\necho 'Fontconfig error: no config' >&2\nexit 3\n"))
	if err := os.Chmod(failing, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err = ListFonts(context.Background(), FontconfigRegistry{Command: failing})
	var enumErr *EnumerationError
	if !errors.As(err, &enumErr) {
		t.Fatalf("err = %v, want EnumerationError", err)
	}
}

func TestEmbeddedRegistry(t *testing.T) {
	got, err := EmbeddedRegistry{}.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("got %d embedded fonts", len(got))
	}
	for _, h := range got {
		if !h.InMemory() {
			t.Errorf("embedded handle is not in memory: %+v", h)
		}
	}
	listed, _ := ListFonts(context.Background(), EmbeddedRegistry{})
	if len(listed) != 1 {
		t.Errorf("ListFonts kept %d in-memory fonts, want 1", len(listed))
	}
}

func TestNewRegistry(t *testing.T) {
	if _, err := NewRegistry(Options{Source: "carrier-pigeon"}); err == nil {
		t.Errorf("unknown source accepted")
	}

	switch reg := SystemRegistry().(type) {
	case FontconfigRegistry:
		if !reg.Available() {
			t.Errorf("system registry picked an unavailable fc-list")
		}
	case DirRegistry:
		if len(reg.Dirs) == 0 {
			t.Errorf("directory fallback has no directories")
		}
	default:
		t.Errorf("system registry is %T", reg)
	}

	reg, err := NewRegistry(Options{Source: SourceDirs})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, ok := reg.(DirRegistry); !ok {
		t.Errorf("dirs source built %T", reg)
	}

	reg, err = NewRegistry(Options{Source: SourceFontconfig, ExtraDirs: []string{"/x"}, IncludeEmbedded: true})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	multi, ok := reg.(MultiRegistry)
	if !ok || len(multi) != 3 {
		t.Fatalf("got %#v, want three registries", reg)
	}
	if _, ok := multi[0].(FontconfigRegistry); !ok {
		t.Errorf("first registry is %T", multi[0])
	}
	if _, ok := multi[2].(EmbeddedRegistry); !ok {
		t.Errorf("last registry is %T", multi[2])
	}
}
