/*
Copyright © 2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	imgrt "github.com/blacktop/go-imgrt"
	"github.com/blacktop/go-imgrt/pkg/preview"
	"github.com/blacktop/go-imgrt/pkg/raster"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	gammaStep = 0.1
	minGamma  = 0.1
	maxRadius = 32
)

var tuneOutput string

func init() {
	tuneCmd.Flags().StringVarP(&tuneOutput, "output", "o", "", "Where 's' saves the result (default <name>.tuned<ext>)")
	rootCmd.AddCommand(tuneCmd)
}

// tuneCmd opens an interactive viewer for gamma and blur
var tuneCmd = &cobra.Command{
	Use:   "tune <image>",
	Short: "Adjust gamma and blur interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := raster.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		out := tuneOutput
		if out == "" {
			out = tunedPath(args[0])
		}

		// logging would tear the alt screen; errors surface in the status bar
		m := newTuneModel(img, out)
		p := tea.NewProgram(m, tea.WithAltScreen())
		final, err := p.Run()
		if err != nil {
			return err
		}
		if fm, ok := final.(*tuneModel); ok && fm.saved {
			log.Infof("Saved %s", fm.output)
		}
		return nil
	},
}

// tunedPath derives the default save location from the source path
func tunedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".tuned" + ext
}

var (
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#04B575")
	textColor    = lipgloss.Color("#FAFAFA")
	mutedColor   = lipgloss.Color("#626262")
	errorColor   = lipgloss.Color("#FF5F87")

	titleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)

	legendStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	legendKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

type tuneModel struct {
	rt     *imgrt.Runtime
	source *raster.Raster
	// proxy is the source scaled to the viewport so edits stay interactive
	proxy  *raster.Raster
	result *raster.Raster
	output string

	gamma  float64
	radius float64

	width  int
	height int

	rendered string
	status   string
	err      error
	saved    bool
}

func newTuneModel(src *raster.Raster, output string) *tuneModel {
	m := &tuneModel{
		// gamma and blur never raise events
		rt:     imgrt.New(imgrt.WithObserver(imgrt.Discard)),
		source: src,
		output: output,
		gamma:  1,
		width:  preview.DefaultCols,
		height: preview.DefaultRows,
	}
	m.refresh()
	return m
}

func (m *tuneModel) Init() tea.Cmd {
	return nil
}

func (m *tuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.gamma += gammaStep
		case "down", "j":
			m.gamma = max(m.gamma-gammaStep, minGamma)
		case "right", "l":
			m.radius = min(m.radius+1, maxRadius)
		case "left", "h":
			m.radius = max(m.radius-1, 0)
		case "r":
			m.gamma, m.radius = 1, 0
		case "s":
			m.save()
			return m, nil
		default:
			return m, nil
		}
		m.refresh()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// title and legend
		m.height = max(msg.Height-3, 1)
		m.refresh()
	}
	return m, nil
}

// refresh recomputes the adjusted proxy and its rendering. Halfblocks draw
// one pixel per column and two per row.
func (m *tuneModel) refresh() {
	m.proxy = m.source.Fit(m.width, m.height*2)
	// blur radius is in source pixels
	scale := float64(m.proxy.Width()) / float64(max(m.source.Width(), 1))
	m.result, m.err = adjust(m.rt, m.proxy, m.gamma, m.radius*scale)
	if m.err != nil {
		return
	}
	m.rendered, m.err = preview.New(m.result.Image()).
		Protocol(preview.Halfblocks).
		Width(m.width).
		Height(m.height).
		Render()
}

// save applies the current settings to the full resolution source
func (m *tuneModel) save() {
	full, err := adjust(m.rt, m.source, m.gamma, m.radius)
	if err == nil {
		err = full.Save(m.output)
	}
	if err != nil {
		m.err = err
		return
	}
	m.saved = true
	m.status = "saved " + m.output
}

func (m *tuneModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("gamma %.1f  blur %d", m.gamma, int(m.radius))))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else {
		b.WriteString(m.rendered)
	}
	b.WriteString("\n")

	keys := []string{"↑/↓ gamma", "←/→ blur", "r reset", "s save", "q quit"}
	legend := make([]string, len(keys))
	for i, k := range keys {
		key, desc, _ := strings.Cut(k, " ")
		legend[i] = legendKeyStyle.Render(key) + " " + desc
	}
	line := strings.Join(legend, "  ")
	if m.status != "" {
		line += "  " + m.status
	}
	b.WriteString(legendStyle.Render(line))
	return b.String()
}
