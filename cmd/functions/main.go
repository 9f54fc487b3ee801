// Command functions runs the contact, checkout and Stripe webhook handlers,
// either as a long-running HTTP server or inside AWS Lambda.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "functions",
		Short:         "ExamExperts contact, checkout and payment webhook functions",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(lambdaCmd())
	rootCmd.AddCommand(catalogCmd())

	return rootCmd
}
