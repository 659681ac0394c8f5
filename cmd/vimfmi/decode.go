package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phroun/vim-fmi/keylog"
)

func newDecodeCmd(a *app) *cobra.Command {
	var tokens bool

	cmd := &cobra.Command{
		Use:   "decode <keylog-file>",
		Short: "Show the keystrokes recorded in a Vim -W keylog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			k := keylog.New(data)
			a.logger.Debug("decoding keylog", "file", args[0], "bytes", len(data))

			out := cmd.OutOrStdout()
			if tokens {
				for token := range k.All() {
					fmt.Fprintln(out, strconv.Quote(token))
				}
				return nil
			}
			printTranscript(out, k.String(), k.Count())
			return nil
		},
	}

	cmd.Flags().BoolVar(&tokens, "tokens", false, "print one quoted token per line, suppressed events included")
	return cmd
}
