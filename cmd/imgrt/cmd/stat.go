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

	imgrt "github.com/blacktop/go-imgrt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(builtinsCmd)
}

// statCmd prints size and brightness for each image argument
var statCmd = &cobra.Command{
	Use:   "stat <image>...",
	Short: "Print width, height and mean brightness",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := imgrt.New(imgrt.WithOutput(cmd.OutOrStdout()))
		for _, path := range args {
			img := rt.Load(imgrt.String(path))
			if img.IsNull() {
				return fmt.Errorf("failed to load %s", path)
			}
			w, err := rt.Width(img)
			if err != nil {
				return err
			}
			h, err := rt.Height(img)
			if err != nil {
				return err
			}
			avg, err := rt.Avg(img)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\twidth=%s\theight=%s\tavg=%s\n", path, w, h, avg)
		}
		return nil
	},
}

// builtinsCmd lists the functions pipelines may call
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the builtins available to pipelines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range imgrt.BuiltinNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%d\n", name, imgrt.Builtins[name].Arity)
		}
	},
}
