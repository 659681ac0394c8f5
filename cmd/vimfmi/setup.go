package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phroun/vim-fmi/config"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Activate the user that submits solutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSetup(cmd)
		},
	}
}

func (a *app) runSetup(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	fmt.Fprint(out, "Token: ")
	token, err := readToken(cmd.InOrStdin())
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return errors.New("token must not be empty")
	}

	c, err := a.client()
	if err != nil {
		return err
	}
	user, err := c.SetupUser(cmd.Context(), token)
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := config.WriteUser(dir, user); err != nil {
		return err
	}

	a.logger.Info("user activated", "user_id", user.ID)
	printSuccess(out, "Activated user %s", user.FacultyNumber)
	return nil
}

// readToken reads one line without echo when in is a terminal.
func readToken(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
