package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"dragon_gold", "Dragon Gold"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestReadSceneInfo(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		file        string
		content     string
		displayName string
		description string
	}{
		{"glass-row.json", `{"name": "Glass Row", "description": "Five glass spheres"}`, "Glass Row", "Five glass spheres"},
		{"no_metadata.json", `{"objects": []}`, "No Metadata", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.file, tc.content)
			info := ReadSceneInfo(path)

			if info.DisplayName != tc.displayName {
				t.Errorf("DisplayName = %q, want %q", info.DisplayName, tc.displayName)
			}
			if info.Description != tc.description {
				t.Errorf("Description = %q, want %q", info.Description, tc.description)
			}
			if info.Type != "json" || info.FilePath != path {
				t.Errorf("Unexpected type/path: %q %q", info.Type, info.FilePath)
			}
		})
	}
}

func TestReadSceneInfo_MissingFileKeepsFallback(t *testing.T) {
	info := ReadSceneInfo("nonexistent-scene.json")
	if info.ID != "nonexistent-scene" || info.DisplayName != "Nonexistent Scene" {
		t.Errorf("Expected filename fallback, got %+v", info)
	}
}

func TestListScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "zeta.json", `{"name": "Zeta"}`)
	writeSceneFile(t, dir, "alpha.json", `{"name": "Alpha"}`)
	writeSceneFile(t, dir, "notes.txt", `not a scene`)

	scenes, err := ListScenes(dir)
	if err != nil {
		t.Fatalf("ListScenes() error: %v", err)
	}

	builtinCount := len(BuiltinNames())
	if len(scenes) != builtinCount+2 {
		t.Fatalf("Expected %d scenes, got %d", builtinCount+2, len(scenes))
	}
	for i, name := range BuiltinNames() {
		if scenes[i].ID != name || scenes[i].Type != "builtin" {
			t.Errorf("Scene %d = %+v, want built-in %q", i, scenes[i], name)
		}
	}
	if scenes[builtinCount].DisplayName != "Alpha" || scenes[builtinCount+1].DisplayName != "Zeta" {
		t.Errorf("Scene files should be sorted by display name, got %q then %q",
			scenes[builtinCount].DisplayName, scenes[builtinCount+1].DisplayName)
	}
}

func TestListFileScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListFileScenes(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Errorf("ListFileScenes() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected an empty list, got %v", scenes)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := writeSceneFile(t, dir, "custom.json", `{
		"materials": {"m": {"type": "metal", "albedo": [0.9, 0.9, 0.9]}},
		"objects": [{"type": "sphere", "material": "m", "center": [0, 0, -1], "radius": 0.5}]
	}`)

	testCases := []struct {
		name       string
		input      string
		primitives int
	}{
		{"Built-in by name", "empty", 0},
		{"File by name in directory", "custom", 1},
		{"File by path", path, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Resolve(tc.input, dir, 42)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tc.input, err)
			}
			if len(s.Primitives) != tc.primitives {
				t.Errorf("Expected %d primitives, got %d", tc.primitives, len(s.Primitives))
			}
		})
	}

	if _, err := Resolve("nowhere", dir, 42); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}
