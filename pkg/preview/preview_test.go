package preview

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: uint8((x + y) % 255),
				A: 255,
			})
		}
	}
	return img
}

func clearTerminalEnv(t *testing.T) {
	for _, key := range []string{"TMUX", "TERM", "TERM_PROGRAM", "KITTY_WINDOW_ID", "TERMINFO", "XTERM_VERSION", "LC_TERMINAL"} {
		t.Setenv(key, "")
	}
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		in      string
		want    Protocol
		wantErr bool
	}{
		{in: "", want: Auto},
		{in: "auto", want: Auto},
		{in: "halfblocks", want: Halfblocks},
		{in: "blocks", want: Halfblocks},
		{in: "sixel", want: Sixel},
		{in: "kitty", want: Kitty},
		{in: "iterm2", want: ITerm2},
		{in: "iterm", want: ITerm2},
		{in: "ascii", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProtocol(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" && tt.in != "blocks" && tt.in != "iterm" {
				assert.Equal(t, tt.in, got.String())
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Protocol
	}{
		{name: "plain", env: map[string]string{"TERM": "xterm-256color"}, want: Halfblocks},
		{name: "kitty window", env: map[string]string{"KITTY_WINDOW_ID": "1"}, want: Kitty},
		{name: "ghostty", env: map[string]string{"TERM_PROGRAM": "ghostty"}, want: Kitty},
		{name: "iterm", env: map[string]string{"TERM_PROGRAM": "iTerm.app"}, want: ITerm2},
		{name: "iterm over ssh", env: map[string]string{"LC_TERMINAL": "iTerm2"}, want: ITerm2},
		{name: "foot", env: map[string]string{"TERM": "foot"}, want: Sixel},
		{name: "mintty", env: map[string]string{"TERM_PROGRAM": "mintty"}, want: Sixel},
		{name: "xterm with version", env: map[string]string{"TERM": "xterm", "XTERM_VERSION": "XTerm(390)"}, want: Sixel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTerminalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, Detect())
		})
	}
}

func TestRenderHalfblocks(t *testing.T) {
	clearTerminalEnv(t)
	out, err := New(createTestImage(20, 10)).Width(10).Height(5).Protocol(Halfblocks).Render()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.LessOrEqual(t, strings.Count(out, "\n"), 5)
}

func TestRenderKitty(t *testing.T) {
	clearTerminalEnv(t)
	out, err := New(createTestImage(8, 8)).Width(10).Height(10).Protocol(Kitty).Render()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\x1b_Ga=T,f=100"))
	assert.Contains(t, out, "m=0;")
}

func TestRenderKittyInTmux(t *testing.T) {
	clearTerminalEnv(t)
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	out, err := New(createTestImage(4, 4)).Width(10).Height(10).Protocol(Kitty).Render()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\x1bPtmux;\x1b\x1b_G"))
}

func TestRenderITerm2(t *testing.T) {
	clearTerminalEnv(t)
	out, err := New(createTestImage(8, 4)).Width(10).Height(10).Protocol(ITerm2).Render()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\x1b]1337;File=inline=1;"))
	assert.Contains(t, out, "width=8px;height=4px")
}

func TestRenderSixel(t *testing.T) {
	clearTerminalEnv(t)
	for _, diffuse := range []bool{false, true} {
		out, err := New(createTestImage(16, 12)).Width(10).Height(10).Protocol(Sixel).Colors(16).Dither(diffuse).Render()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "\x1bP"), "sixel output must start with DCS")
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := New(nil).Render()
	assert.Error(t, err)

	_, err = New(image.NewRGBA(image.Rect(0, 0, 0, 3))).Width(5).Height(5).Render()
	assert.Error(t, err)

	_, err = New(createTestImage(2, 2)).Width(5).Height(5).Protocol(Protocol(99)).Render()
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	clearTerminalEnv(t)
	var buf bytes.Buffer
	require.NoError(t, New(createTestImage(6, 6)).Width(6).Height(3).Protocol(Halfblocks).Print(&buf))
	assert.NotZero(t, buf.Len())
}

func TestFit(t *testing.T) {
	p := New(createTestImage(1000, 500))
	got := p.fit(10, 10).Bounds()
	assert.LessOrEqual(t, got.Dx(), 10*DefaultCellWidth)
	assert.LessOrEqual(t, got.Dy(), 10*DefaultCellHeight)

	small := createTestImage(5, 5)
	assert.Equal(t, small, New(small).fit(10, 10))
}

func TestChunkBase64(t *testing.T) {
	data := bytes.Repeat([]byte{0xab}, 10000)
	chunks := chunkBase64(data, KittyChunkSize)
	require.Len(t, chunks, 4)
	for _, c := range chunks[:len(chunks)-1] {
		assert.Len(t, c, KittyChunkSize)
	}
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), strings.Join(chunks, ""))
}

func TestFluentClamps(t *testing.T) {
	p := New(createTestImage(2, 2)).Width(-3).Height(-1).Colors(1000)
	assert.Equal(t, 0, p.width)
	assert.Equal(t, 0, p.height)
	assert.Equal(t, 256, p.colors)
	assert.Equal(t, 2, New(nil).Colors(0).colors)
}
