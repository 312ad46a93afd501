package main

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/httpclient/rest"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/resilience"
)

type globalFlags struct {
	configFile string
	envFile    string
	resource   string
	baseURL    string
	url        string
	postfix    string
	headers    []string
	params     []string
	output     string
}

// app holds what a command needs once configuration is loaded.
type app struct {
	out   io.Writer
	flags globalFlags

	cfg      *Config
	resource ResourceConfig
	svc      *rest.Service
	adapter  *httpclient.Adapter
	shutdown observability.ShutdownFunc
}

// setup loads configuration and wires logging, telemetry, the transport
// chain and the facade.
func (a *app) setup(ctx context.Context) error {
	if a.flags.output != "json" && a.flags.output != "yaml" {
		return errors.InvalidInput("output", "must be json or yaml")
	}

	cfg, rc, err := loadConfig(&a.flags)
	if err != nil {
		return asInvalidInput(err)
	}
	a.cfg, a.resource = cfg, rc

	logger.Init(&cfg.Logging)
	log := logger.WithComponent("restctl")

	a.shutdown, err = observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return errors.Internal(err)
	}

	if rc.Auth != nil {
		rc.HTTP.Auth = rc.Auth
	}
	a.adapter, err = httpclient.New(rc.HTTP, httpclient.WithLogger(log))
	if err != nil {
		return asInvalidInput(err)
	}

	var (
		middlewares = []httpclient.Middleware{httpclient.WithRequestID()}
		svcOpts     = []rest.Option{rest.WithLogger(log)}
	)
	if cfg.Observability.Enabled {
		middlewares = append(middlewares, httpclient.WithTracing())
		svcOpts = append(svcOpts, rest.WithTracing())
		if cfg.Observability.Metrics {
			m, err := observability.NewMetrics(observability.Meter(observability.TracerName))
			if err != nil {
				return errors.Internal(err)
			}
			middlewares = append(middlewares, httpclient.WithMetrics(m))
			svcOpts = append(svcOpts, rest.WithMetrics(m))
		}
	}
	if rc.RateLimit != nil {
		limiter := rc.RateLimit
		if limiter.Name == "" {
			limiter.Name = rc.ResourceName
		}
		limiter.OnWait = func(name string, wait time.Duration) {
			log.Debug("rate limited", logger.Fields("limiter", name, logger.FieldDuration, wait.Milliseconds()))
		}
		middlewares = append(middlewares, httpclient.WithRateLimit(resilience.NewRateLimiter(*limiter)))
	}
	if rc.Retry != nil {
		retry := *rc.Retry
		retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
			log.Debug("retrying request", logger.Fields("attempt", attempt, logger.FieldError, err.Error(), "backoff_ms", backoff.Milliseconds()))
		}
		middlewares = append(middlewares, httpclient.WithRetry(retry))
	}
	middlewares = append(middlewares, httpclient.WithLogging(log))

	a.svc, err = rest.New(rc.Config, httpclient.Wrap(a.adapter, middlewares...), svcOpts...)
	if err != nil {
		return err
	}
	return nil
}

// close flushes telemetry and releases idle connections.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.adapter != nil {
		errs = append(errs, a.adapter.Close(ctx))
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

func (a *app) options() (*rest.Options, error) {
	opts, err := requestOptions(a.resource, &a.flags)
	if err != nil {
		return nil, asInvalidInput(err)
	}
	return opts, nil
}

func asInvalidInput(err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.New(errors.ErrCodeInvalidInput, err.Error(), 0).WithCause(err)
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "restctl",
		Short: "CRUD calls against a configured REST resource",
		Long: `restctl lists, reads, creates, updates and deletes entities of a REST
resource described in restctl.yml (or flags).

Resources are looked up under "resources.<name>" in the config file;
--base-url and --resource are enough when no file is present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configFile, "config", "c", "", "config file (default: restctl.yml lookup)")
	pf.StringVar(&a.flags.envFile, "env-file", "", ".env file to load")
	pf.StringVarP(&a.flags.resource, "resource", "r", "", "resource name from the config file")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "override the resource base URL")
	pf.StringVar(&a.flags.url, "url", "", "send to this URL instead of the resolved one")
	pf.StringVar(&a.flags.postfix, "postfix", "", "path appended after the resolved URL")
	pf.StringArrayVarP(&a.flags.headers, "header", "H", nil, "request header key=value (repeatable)")
	pf.StringArrayVarP(&a.flags.params, "param", "p", nil, "query parameter key=value (repeatable)")
	pf.StringVarP(&a.flags.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newVersionCmd(out),
	)
	return root
}

// withApp wraps a command body with setup and cleanup.
func withApp(a *app, run func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.setup(ctx); err != nil {
			return err
		}
		runErr := run(ctx, args)
		if err := a.close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
		return runErr
	}
}
