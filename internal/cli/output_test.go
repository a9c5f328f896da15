package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigmul/internal/arith"
	"github.com/agbru/bigmul/internal/orchestration"
)

// product55 is 0x37 zero-extended to two limbs.
var product55 = []arith.Word{0x37, 0}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	testCases := []struct {
		name        string
		outputFile  string
		expectError bool
		checkFunc   func(t *testing.T, filePath string)
	}{
		{
			name:       "Write product to file",
			outputFile: filepath.Join(tmpDir, "product.txt"),
			checkFunc: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Fatalf("failed to read output file: %v", err)
				}
				s := string(content)
				for _, want := range []string{"# bigmul product", "# Run: run-7", "# Algorithm: toom22", "# Operands: 1 x 1 limbs", "# Limbs: 2", "# Bits: 6", "\n0x37\n"} {
					if !strings.Contains(s, want) {
						t.Errorf("file should contain %q, got:\n%s", want, s)
					}
				}
			},
		},
		{
			name:       "Empty output file (no write)",
			outputFile: "",
		},
		{
			name:       "Create nested directory",
			outputFile: filepath.Join(tmpDir, "nested", "dir", "product.txt"),
			checkFunc: func(t *testing.T, filePath string) {
				if _, err := os.Stat(filePath); err != nil {
					t.Errorf("file should exist in nested directory: %v", err)
				}
			},
		},
		{
			name:        "Directory in the way",
			outputFile:  tmpDir,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := OutputConfig{
				OutputFile:   tc.outputFile,
				Presentation: orchestration.PresentationOptions{RunID: "run-7", ALimbs: 1, BLimbs: 1},
			}
			err := WriteResultToFile(product55, "toom22", time.Millisecond, cfg)
			if (err != nil) != tc.expectError {
				t.Fatalf("WriteResultToFile() error = %v, expectError %v", err, tc.expectError)
			}
			if tc.checkFunc != nil {
				tc.checkFunc(t, tc.outputFile)
			}
		})
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hex  bool
		want string
	}{
		{"summary", false, "toom33 1500 6"},
		{"hex", true, "0x37"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatQuietResult(product55, "toom33", 1500*time.Nanosecond, tt.hex); got != tt.want {
				t.Errorf("FormatQuietResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayQuietResult(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayQuietResult(&buf, product55, "basecase", 2*time.Microsecond, false)
	if got := buf.String(); got != "basecase 2000 6\n" {
		t.Errorf("DisplayQuietResult() wrote %q", got)
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	withNoColor(t)
	tmpDir := t.TempDir()
	result := orchestration.MultiplicationResult{Name: "toom44", Product: product55, Duration: time.Millisecond, Reps: 1}

	t.Run("quiet with file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(tmpDir, "quiet.txt")
		err := DisplayResultWithConfig(&buf, result, OutputConfig{OutputFile: path, Quiet: true})
		if err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != "toom44 1000000 6\n" {
			t.Errorf("quiet output = %q", got)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output file missing: %v", err)
		}
	})

	t.Run("normal with file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(tmpDir, "normal.txt")
		if err := DisplayResultWithConfig(&buf, result, OutputConfig{OutputFile: path}); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "Product size") || !strings.Contains(out, "Product saved to: "+path) {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("file error", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, result, OutputConfig{OutputFile: tmpDir}); err == nil {
			t.Error("expected an error when the output path is a directory")
		}
	})
}
