package movelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is the on-disk move log: one Entry per line, appended as moves are
// committed and cleared when a new game starts.
type File struct {
	path string
}

// NewFile returns a log bound to path. Nothing is touched on disk.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Clear truncates the log, creating it and its directory if needed.
func (f *File) Clear() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.WriteFile(f.path, nil, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Append writes one entry line to the end of the log.
func (f *File) Append(e Entry) error {
	fh, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := fmt.Fprintln(fh, e.String()); err != nil {
		fh.Close()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Record implements game.Recorder.
func (f *File) Record(e Entry) error {
	return f.Append(e)
}

// ReadAll returns every entry in the log.
func (f *File) ReadAll() ([]Entry, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer fh.Close()

	return Parse(fh)
}

// Parse reads log lines from r. Blank lines are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		e, err := ParseLine(text)
		if err != nil {
			return entries, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return entries, nil
}

// Write writes entries to w in the log format.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(bw, e.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
