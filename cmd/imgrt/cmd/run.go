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
	"context"
	"os"
	"os/signal"
	"sort"

	"github.com/apex/log"
	imgrt "github.com/blacktop/go-imgrt"
	"github.com/blacktop/go-imgrt/pkg/pipeline"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCmd executes a YAML pipeline
var runCmd = &cobra.Command{
	Use:   "run <pipeline.yaml>",
	Short: "Run an image pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := pipeline.Load(args[0])
		if err != nil {
			return err
		}
		log.Debugf("Loaded %d steps from %s", len(doc.Steps), args[0])

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		rt := imgrt.New(
			imgrt.WithObserver(imgrt.LogObserver(log.Log)),
			imgrt.WithOutput(cmd.OutOrStdout()),
			imgrt.WithInput(cmd.InOrStdin()),
		)
		env, err := pipeline.Run(ctx, rt, doc)
		if err != nil {
			return err
		}
		logBindings(env)
		return nil
	},
}

func logBindings(env pipeline.Env) {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := env[name]
		log.WithFields(log.Fields{"kind": v.Kind()}).Debugf("%s = %s", name, v)
	}
}
