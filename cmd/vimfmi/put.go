package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phroun/vim-fmi/client"
	"github.com/phroun/vim-fmi/config"
	"github.com/phroun/vim-fmi/editor"
	"github.com/phroun/vim-fmi/keylog"
)

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <task-id>",
		Short: "Solve the exercise with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPut(cmd, args[0])
		},
	}
}

func (a *app) runPut(cmd *cobra.Command, taskID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	user, err := config.ReadUser(dir)
	if errors.Is(err, config.ErrNoUser) {
		return errors.New("no user is set up, run `vimfmi setup` first")
	}
	if err != nil {
		return err
	}

	executable := a.cfg.Editor
	if executable == "" {
		if executable, err = editor.Find(nil); err != nil {
			return err
		}
	}

	c, err := a.client()
	if err != nil {
		return err
	}
	task, err := c.DownloadTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := client.CheckVersion(version, task.Version); err != nil {
		return fmt.Errorf("%w, please update vimfmi", err)
	}

	ws, err := editor.NewWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	input, err := ws.CreateFile("input", task.Input)
	if err != nil {
		return err
	}

	vim := &editor.Vim{
		Executable: executable,
		VimrcPath:  ws.VimrcPath(),
		Logger:     a.logger.Logger,
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
	a.logger.Info("starting exercise", "task", taskID, "editor", executable)
	res, err := vim.Run(ctx, input, ws.Path("log"))
	if err != nil {
		return err
	}

	k := keylog.New(res.Keylog)
	printTranscript(out, k.String(), k.Count())

	if !editor.Matches(task.Output, res.Output) {
		printWarning(out, "The result does not match the expected output, nothing was submitted")
		return nil
	}

	if err := c.Upload(ctx, taskID, user.Token, res.Keylog); err != nil {
		return err
	}
	a.logger.Info("solution submitted", "task", taskID, "keystrokes", k.Count())
	printSuccess(out, "Solved in %d keystrokes, solution submitted", k.Count())
	return nil
}
