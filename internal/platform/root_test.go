package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// Create a temp directory structure
	// /tmp/
	//   project/ (persistor.yaml)
	//     subdir/
	//       nested/
	//   empty/

	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(emptyDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Create marker
	configPath := filepath.Join(projectDir, "persistor.yaml")
	if err := os.WriteFile(configPath, []byte("contexts: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// A directory with a config name is not a config file.
	if err := os.Mkdir(filepath.Join(subDir, "persistor.json"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		want      string
		wantErr   bool
	}{
		{
			name:      "Start at Project",
			startPath: projectDir,
			want:      configPath,
		},
		{
			name:      "Start in Subdir",
			startPath: subDir,
			want:      configPath,
		},
		{
			name:      "Start in Nested",
			startPath: nestedDir,
			want:      configPath,
		},
		{
			name:      "Not Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FindConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}
