// Command restctl performs CRUD calls against a REST resource configured
// in restctl.yml or on the command line.
//
//	restctl --base-url https://api.example.com/v1 -r items list
//	restctl -r items get 5
//	restctl -r items add --data '{"name":"x"}' --postfix bulk
//	restctl -r items update 5 --method PATCH --data '{"done":true}'
//	restctl -r items delete 5
//
// Failures are printed to stderr as an error document and exit with status 1.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/restkit/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.IsAppError(err) {
			// flag and argument errors from cobra
			err = asInvalidInput(err)
		}
		printError(stderr, err)
		return 1
	}
	return 0
}
