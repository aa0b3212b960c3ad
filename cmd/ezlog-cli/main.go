// Command ezlog-cli decodes one ezlog file to its formatted record text,
// given the cipher key and nonce it was written with; the compress and
// cipher kinds are read from the file's header.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	input      string
	output     string
	configPath string
	key        string
	nonce      string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "ezlog-cli",
		Short: "Decode an ezlog file to its formatted record text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "path to the ezlog file to decode (required)")
	cmd.Flags().StringVar(&flags.output, "output", "", "path to write decoded text to (default: stdout)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a JSON config document (hex-encoded key/nonce)")
	cmd.Flags().StringVar(&flags.key, "key", "", "hex-encoded cipher key, overrides --config's key")
	cmd.Flags().StringVar(&flags.nonce, "nonce", "", "hex-encoded cipher nonce, overrides --config's nonce")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "print per-block diagnostics to stderr")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
