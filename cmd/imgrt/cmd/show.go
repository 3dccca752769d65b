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
	"math"

	"github.com/apex/log"
	imgrt "github.com/blacktop/go-imgrt"
	"github.com/blacktop/go-imgrt/pkg/preview"
	"github.com/blacktop/go-imgrt/pkg/raster"
	"github.com/spf13/cobra"
)

var (
	showProtocol string
	showWidth    int
	showHeight   int
	showDither   bool
	showColors   int
	showGamma    float64
	showBlur     float64
)

func init() {
	showCmd.Flags().StringVarP(&showProtocol, "protocol", "p", "auto", "Protocol to use (auto, halfblocks, sixel, kitty, iterm2)")
	showCmd.Flags().IntVarP(&showWidth, "width", "W", 0, "Width in character cells (0 fits the terminal)")
	showCmd.Flags().IntVarP(&showHeight, "height", "H", 0, "Height in character cells (0 fits the terminal)")
	showCmd.Flags().BoolVarP(&showDither, "dither", "d", false, "Dither when reducing the sixel palette")
	showCmd.Flags().IntVar(&showColors, "colors", 256, "Sixel palette size")
	showCmd.Flags().Float64Var(&showGamma, "gamma", 1, "Apply pow_channels before showing")
	showCmd.Flags().Float64Var(&showBlur, "blur", 0, "Apply a box blur of this radius before showing")
	rootCmd.AddCommand(showCmd)
}

// showCmd previews an image in the terminal
var showCmd = &cobra.Command{
	Use:   "show <image>",
	Short: "Display an image in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proto, err := preview.ParseProtocol(showProtocol)
		if err != nil {
			return err
		}
		img, err := raster.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		log.Debugf("Image Info: %s %dx%d", args[0], img.Width(), img.Height())

		img, err = adjust(imgrt.New(imgrt.WithObserver(imgrt.LogObserver(log.Log))), img, showGamma, showBlur)
		if err != nil {
			return err
		}

		return preview.New(img.Image()).
			Protocol(proto).
			Width(showWidth).
			Height(showHeight).
			Dither(showDither).
			Colors(showColors).
			Print(cmd.OutOrStdout())
	},
}

// adjust runs gamma then blur through the runtime, skipping identity settings
func adjust(rt *imgrt.Runtime, img *raster.Raster, gamma, radius float64) (*raster.Raster, error) {
	v := imgrt.Image(img)
	var err error
	if math.Abs(gamma-1) > 1e-9 {
		if v, err = rt.Pow(v, imgrt.Float(gamma)); err != nil {
			return nil, err
		}
	}
	if radius > 0 {
		if v, err = rt.Blur(v, imgrt.Float(radius)); err != nil {
			return nil, err
		}
	}
	out, _ := v.AsImage()
	return out, nil
}
