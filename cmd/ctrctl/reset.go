package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"ctrcompare/internal"
)

// ResetCommand clears the saved comparison
type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Clears the saved comparison: reset [-yes]" }

func (c *ResetCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes && term.IsTerminal(int(os.Stdin.Fd())) {
		if !confirm(os.Stdin, os.Stdout, "Delete the saved comparison? [y/N]: ") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := app.Session.Reset(); err != nil {
		return err
	}
	fmt.Println("Saved comparison cleared")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
