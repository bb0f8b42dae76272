// Package main is the vantage admin console: posts, authors, tags and menus
// of the blog backend from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/di"
)

// app is the state shared by every command of one invocation.
type app struct {
	flags    config.Flags
	injector *do.RootScope
	out      io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		writeError(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs one command line and releases everything it opened.
func execute(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	a := &app{out: out}
	defer a.close()

	root := newRootCmd(a)
	root.SetIn(in)
	root.SetOut(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vantage",
		Short:         "Admin console for the blog backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			a.injector = di.NewContainer(a.flags)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.EnvFile, "env-file", "", "path to the .env file (default: .env)")
	f.StringVar(&a.flags.Env, "env", "", "environment: development, staging or production")
	f.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&a.flags.APIURL, "api", "", "backend base url (default: "+config.DefaultBaseURL+")")
	f.StringVar(&a.flags.APITimeout, "api-timeout", "", "per-request timeout (default: 30s)")
	f.StringVar(&a.flags.APIRPS, "api-rps", "", "outbound requests per second, negative disables the limit (default: 10)")
	f.StringVar(&a.flags.APIBurst, "api-burst", "", "outbound burst size (default: 20)")
	f.StringVar(&a.flags.DataPath, "data", "", "local data directory (default: ~/.vantage)")

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		statusCmd(a),
		postsCmd(a),
		authorsCmd(a),
		tagsCmd(a),
		menuCmd(a),
	)
	return root
}

// invoke resolves a service from the container of the running command.
func invoke[T any](a *app) (T, error) {
	return do.Invoke[T](a.injector)
}

func (a *app) close() {
	if a.injector == nil {
		return
	}
	_ = a.injector.Shutdown()
	a.injector = nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
