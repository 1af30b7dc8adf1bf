// Package pattern reads plaintext Life patterns, provides a catalog of
// well-known patterns, and renders a viewport of cells as text.
package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phroun/hashlife"
)

// ErrUnknownPattern indicates a name missing from the built-in catalog.
var ErrUnknownPattern = errors.New("unknown pattern")

// ErrViewTooLarge indicates a Render request over the cell limit.
var ErrViewTooLarge = errors.New("view too large to render")

// maxRenderCells caps the text produced by Render.
const maxRenderCells = 1 << 24

// Parse reads a plaintext pattern. Lines starting with '!' or '#' are
// comments and empty lines are skipped. On the remaining lines '.' is a dead
// cell and any other character is live; lines may differ in length. The first
// row is y = 0 and later rows go south (negative y); the first column is x = 0.
func Parse(r io.Reader) ([]hashlife.Cell, error) {
	var cells []hashlife.Cell
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var row int64
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || line[0] == '!' || line[0] == '#' {
			continue
		}
		var col int64
		for _, c := range line {
			if c != '.' {
				cells = append(cells, hashlife.Cell{X: col, Y: -row})
			}
			col++
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pattern: %w", err)
	}
	return cells, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]hashlife.Cell, error) {
	return Parse(strings.NewReader(s))
}

// Load parses the pattern file at path.
func Load(path string) ([]hashlife.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// builtin holds the catalog. Coordinates have north as +y.
var builtin = map[string][]hashlife.Cell{
	"block":       {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
	"blinker":     {{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}},
	"glider":      {{X: 1, Y: 0}, {X: 2, Y: -1}, {X: 0, Y: -2}, {X: 1, Y: -2}, {X: 2, Y: -2}},
	"r-pentomino": {{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: -1}},
	"diehard":     {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 5, Y: 1}, {X: 6, Y: -1}, {X: 6, Y: 1}, {X: 7, Y: 1}},
	"acorn":       {{X: 0, Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: 3, Y: 0}, {X: 4, Y: 1}, {X: 5, Y: 1}, {X: 6, Y: 1}},
	"zigzag": {
		{X: -2, Y: -2}, {X: -2, Y: -1}, {X: -2, Y: 2}, {X: -1, Y: -2}, {X: -1, Y: 1},
		{X: 0, Y: -2}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 0}, {X: 2, Y: -2},
		{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2},
	},
}

// Default is the pattern used when none is given.
const Default = "zigzag"

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a copy of the named catalog pattern.
func Builtin(name string) ([]hashlife.Cell, error) {
	cells, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return append([]hashlife.Cell(nil), cells...), nil
}

// Resolve returns the catalog pattern called arg, or else the contents of the
// file at arg. An empty arg selects Default.
func Resolve(arg string) ([]hashlife.Cell, error) {
	if arg == "" {
		arg = Default
	}
	if cells, err := Builtin(arg); err == nil {
		return cells, nil
	}
	cells, err := Load(arg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q is neither a built-in pattern nor a file", ErrUnknownPattern, arg)
		}
		return nil, err
	}
	return cells, nil
}

// Render writes bounds as text, north row first, using live and dead as the
// glyphs for each cell. Cells outside bounds are ignored.
func Render(w io.Writer, bounds hashlife.Bounds, cells []hashlife.Cell, live, dead string) error {
	if bounds.Empty() {
		return nil
	}
	width := uint64(bounds.MaxX-bounds.MinX) + 1
	height := uint64(bounds.MaxY-bounds.MinY) + 1
	if width > maxRenderCells || height > maxRenderCells || width*height > maxRenderCells {
		return fmt.Errorf("%w: %dx%d", ErrViewTooLarge, width, height)
	}

	set := make(map[hashlife.Cell]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}

	bw := bufio.NewWriter(w)
	for y := bounds.MaxY; ; y-- {
		for x := bounds.MinX; ; x++ {
			glyph := dead
			if _, ok := set[hashlife.Cell{X: x, Y: y}]; ok {
				glyph = live
			}
			bw.WriteString(glyph)
			if x == bounds.MaxX {
				break
			}
		}
		bw.WriteByte('\n')
		if y == bounds.MinY {
			break
		}
	}
	return bw.Flush()
}
