package memfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-neurostream/fixed"
)

func TestReadBasic(t *testing.T) {
	in := "00010000\nFFFF0000\n00050000\n"
	got, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []fixed.Sample{fixed.One, -fixed.One, 5 * fixed.One}
	if len(got) != len(want) {
		t.Fatalf("sample count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %#x, want %#x", i, uint32(got[i]), uint32(want[i]))
		}
	}
}

func TestReadSkipsCommentsAndBlanks(t *testing.T) {
	in := strings.Join([]string{
		"// capture header",
		"@00000000",
		"",
		"  00010000  ",
		"// trailing comment",
		"80000000",
		"",
	}, "\n")
	got, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("sample count = %d, want 2", len(got))
	}
	if got[0] != fixed.One || got[1] != fixed.Min {
		t.Fatalf("samples = %#x, %#x", uint32(got[0]), uint32(got[1]))
	}
}

func TestReadReportsLineNumber(t *testing.T) {
	in := "00010000\nnotahex\n"
	_, err := Read(strings.NewReader(in))
	if err == nil {
		t.Fatal("Read succeeded on garbage, want error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error %q does not name the offending line", err)
	}
}

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []fixed.Sample{fixed.One, -fixed.One})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), "00010000\nFFFF0000\n"; got != want {
		t.Fatalf("Write output = %q, want %q", got, want)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.mem")
	want := []fixed.Sample{0, fixed.One, -fixed.One, fixed.Min, fixed.Max, 0x00001000}
	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("sample count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %#x, want %#x", i, uint32(got[i]), uint32(want[i]))
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.mem")); err == nil {
		t.Fatal("ReadFile on missing file succeeded, want error")
	}
}
