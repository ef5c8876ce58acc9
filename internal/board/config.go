package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrConfigIO is returned when a board config file cannot be opened or written.
	ErrConfigIO = errors.New("board config: i/o error")
	// ErrMalformedConfig is returned when a board config file is not 64 piece ids.
	ErrMalformedConfig = errors.New("board config: malformed")
)

// ParseConfig reads a board config: eight rows of eight whitespace
// separated piece ids, row 0 first.
func ParseConfig(r io.Reader) (Board, error) {
	var b Board

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	n := 0
	for sc.Scan() {
		if n == Size*Size {
			return b, fmt.Errorf("%w: more than %d values", ErrMalformedConfig, Size*Size)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return b, fmt.Errorf("%w: row %d: %q is not a number", ErrMalformedConfig, n/Size, sc.Text())
		}
		if v < 0 || !Piece(v).Valid() {
			return b, fmt.Errorf("%w: row %d: unknown piece id %d", ErrMalformedConfig, n/Size, v)
		}
		b[n/Size][n%Size] = Piece(v)
		n++
	}
	if err := sc.Err(); err != nil {
		return b, fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	if n != Size*Size {
		return b, fmt.Errorf("%w: row %d: need %d values, got %d", ErrMalformedConfig, n/Size, Size*Size, n)
	}

	return b, nil
}

// LoadConfig reads a board config file.
func LoadConfig(path string) (Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	defer f.Close()

	return ParseConfig(f)
}

// WriteConfig writes b in the board config format.
func WriteConfig(w io.Writer, b *Board) error {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(int(b[y][x])))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// SaveConfig writes b to path, creating parent directories as needed.
func SaveConfig(path string, b *Board) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	if err := WriteConfig(f, b); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	return nil
}
