package pattern

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/hashlife"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []hashlife.Cell
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "glider with comments",
			input: "!Name: Glider\n#C a comment\n.O.\n..O\nOOO\n",
			want: []hashlife.Cell{
				{X: 1, Y: 0},
				{X: 2, Y: -1},
				{X: 0, Y: -2}, {X: 1, Y: -2}, {X: 2, Y: -2},
			},
		},
		{
			name:  "crlf and ragged lines",
			input: "*\r\n.*.*\r\n",
			want:  []hashlife.Cell{{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 3, Y: -1}},
		},
		{
			name:  "empty lines skipped",
			input: "O\n\nO\n",
			want:  []hashlife.Cell{{X: 0, Y: 0}, {X: 0, Y: -1}},
		},
		{
			name:  "all dead row still advances",
			input: "O\n...\nO\n",
			want:  []hashlife.Cell{{X: 0, Y: 0}, {X: 0, Y: -2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinker.cells")
	require.NoError(t, os.WriteFile(path, []byte("!blinker\nOOO\n"), 0644))

	cells, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []hashlife.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, cells)
}

func TestBuiltin(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "glider")
	assert.Contains(t, names, Default)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		cells, err := Builtin(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, cells, name)
	}

	a, err := Builtin("Blinker")
	require.NoError(t, err)
	a[0].X = 99
	b, err := Builtin("blinker")
	require.NoError(t, err)
	assert.NotEqual(t, int64(99), b[0].X, "Builtin should return a copy")

	_, err = Builtin("spaceship-factory")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestResolve(t *testing.T) {
	cells, err := Resolve("")
	require.NoError(t, err)
	want, _ := Builtin(Default)
	assert.Equal(t, want, cells)

	path := filepath.Join(t.TempDir(), "dot.cells")
	require.NoError(t, os.WriteFile(path, []byte("O"), 0644))
	cells, err = Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, []hashlife.Cell{{X: 0, Y: 0}}, cells)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.cells"))
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestRender(t *testing.T) {
	cells := []hashlife.Cell{{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 5, Y: 5}}
	bounds := hashlife.Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 0}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, bounds, cells, "O", "."))
	assert.Equal(t, ".O.\n..O\n", buf.String())
}

func TestRenderParseRoundTrip(t *testing.T) {
	glider, err := Builtin("glider")
	require.NoError(t, err)

	var buf bytes.Buffer
	bounds := hashlife.Bounds{MinX: 0, MaxX: 2, MinY: -2, MaxY: 0}
	require.NoError(t, Render(&buf, bounds, glider, "O", "."))

	parsed, err := ParseString(buf.String())
	require.NoError(t, err)
	assert.ElementsMatch(t, glider, parsed)
}

func TestRenderTooLarge(t *testing.T) {
	bounds := hashlife.Bounds{MinX: 0, MaxX: 1 << 20, MinY: 0, MaxY: 1 << 20}
	err := Render(&bytes.Buffer{}, bounds, nil, "#", ".")
	assert.ErrorIs(t, err, ErrViewTooLarge)
}
