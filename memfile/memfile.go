// Package memfile reads and writes the persisted sample format: a
// newline-delimited sequence of 32-bit hexadecimal words, one Q16.16
// sample per line. This is the bit-exact contract shared with the
// readmemh-style capture tooling; comment lines starting with "//" or
// "@" and blank lines are tolerated on read.
package memfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/algo-neurostream/fixed"
)

// Read decodes all samples from r.
func Read(r io.Reader) ([]fixed.Sample, error) {
	var samples []fixed.Sample
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		word := strings.TrimSpace(sc.Text())
		if word == "" || strings.HasPrefix(word, "//") || strings.HasPrefix(word, "@") {
			continue
		}
		s, err := fixed.ParseWord(word)
		if err != nil {
			return nil, fmt.Errorf("memfile: line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("memfile: read: %w", err)
	}
	return samples, nil
}

// ReadFile decodes all samples from the named file.
func ReadFile(path string) ([]fixed.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("memfile: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes samples to w, one 8-digit uppercase hex word per line.
func Write(w io.Writer, samples []fixed.Sample) error {
	bw := bufio.NewWriter(w)
	for _, s := range samples {
		if _, err := bw.WriteString(fixed.FormatWord(s)); err != nil {
			return fmt.Errorf("memfile: write: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("memfile: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("memfile: write: %w", err)
	}
	return nil
}

// WriteFile encodes samples to the named file.
func WriteFile(path string, samples []fixed.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("memfile: %w", err)
	}
	if err := Write(f, samples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("memfile: close: %w", err)
	}
	return nil
}
