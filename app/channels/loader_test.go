package channels

import (
	"os"
	"path/filepath"
	"testing"
)

func writeChannelsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "channels.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write channels file: %v", err)
	}
	return path
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeChannelsFile(t, `
channels:
  - name: technology
  - name: programming
  - name: startups
`)

	chs, err := Load(path, 25)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"technology", "programming", "startups"}
	if len(chs) != len(expected) {
		t.Fatalf("Expected %d channels, got %d", len(expected), len(chs))
	}
	for i, name := range expected {
		if chs[i].Name != name {
			t.Errorf("Expected channel %d to be %s, got %s", i, name, chs[i].Name)
		}
	}
}

func TestLoadAppliesDefaultPageSize(t *testing.T) {
	path := writeChannelsFile(t, `
channels:
  - name: technology
  - name: programming
    page_size: 50
`)

	chs, err := Load(path, 25)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if chs[0].PageSize != 25 {
		t.Errorf("Expected default page size 25, got %d", chs[0].PageSize)
	}
	if chs[1].PageSize != 50 {
		t.Errorf("Expected override page size 50, got %d", chs[1].PageSize)
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty list", content: "channels: []"},
		{name: "unnamed channel", content: "channels:\n  - page_size: 10"},
		{name: "duplicate channel", content: "channels:\n  - name: tech\n  - name: tech"},
		{name: "not yaml", content: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeChannelsFile(t, tt.content)
			if _, err := Load(path, 25); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), 25); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
