package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dosanma1/docker-server/internal/buildx"
	"github.com/dosanma1/docker-server/internal/config"
	"github.com/dosanma1/docker-server/internal/credentials"
	"github.com/dosanma1/docker-server/internal/publish"
	"github.com/dosanma1/docker-server/internal/report"
	"github.com/dosanma1/docker-server/internal/tags"
	"github.com/dosanma1/docker-server/pkg/xos"
)

func runPublish(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()

	log, err := newLogger(cmd.ErrOrStderr(), opts.logFormat, opts.verbose)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	tagList, err := tags.Generate(cfg.Version.String(), cfg.ReleaseType)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"version":      cfg.Version,
		"release_type": cfg.ReleaseType,
		"os":           strings.Join(cfg.OS, ","),
		"push":         cfg.Push,
	}).Infof("Publishing tags %s", strings.Join(tagList, ", "))

	if err := xos.EnsureDir(cfg.ScratchDir); err != nil {
		return err
	}

	executor, err := newExecutor(cmd, opts, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Push {
		if err := login(cmd, opts, cfg, executor); err != nil {
			return err
		}
	}

	publisher := publish.New(executor, publish.Options{
		Image:        publish.Image{Path: cfg.ImagePath, Repo: cfg.ImageRepo},
		Push:         cfg.Push,
		BucketPrefix: cfg.BucketPrefix,
		Version:      cfg.Version.String(),
		ScratchDir:   cfg.ScratchDir,
		Parallel:     cfg.Parallel,
		Output:       cmd.OutOrStdout(),
	}, log)

	results, runErr := publisher.Run(ctx, cfg.OS, tagList)

	rep := report.New(cfg, tagList, results)
	if err := rep.Render(cmd.OutOrStdout()); err != nil {
		return err
	}
	if cfg.ReportPath != "" {
		if err := rep.WriteFile(cfg.ReportPath); err != nil {
			return err
		}
		log.WithField("path", cfg.ReportPath).Info("report written")
	}

	if runErr != nil {
		return runErr
	}
	if rep.Failed() {
		_, failed := rep.Counts()
		return fmt.Errorf("%w: %d failed", ErrBuildsFailed, failed)
	}
	return nil
}

// resolveConfig merges the command line with the config file and the
// environment.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	flags := opts.flags
	f := cmd.Flags()
	if f.Changed("push") {
		flags.Push = &opts.push
	}
	if opts.noPush {
		noPush := false
		flags.Push = &noPush
	}
	if f.Changed("parallel") {
		flags.Parallel = &opts.parallel
	}
	if f.Changed("timeout") {
		flags.Timeout = &opts.timeout
	}

	r, err := loadResolver(opts.configPath)
	if err != nil {
		return nil, err
	}
	return r.Resolve(flags)
}

func newExecutor(cmd *cobra.Command, opts *rootOptions, cfg *config.Config, log logrus.FieldLogger) (*buildx.Executor, error) {
	lookPath := opts.lookPath
	if lookPath == nil {
		lookPath = buildx.FindDocker
	}
	docker, err := lookPath(cfg.Docker)
	if err != nil {
		return nil, err
	}

	return buildx.NewExecutor(buildx.ExecutorOptions{
		Docker:  docker,
		Runner:  opts.runner,
		Output:  cmd.OutOrStdout(),
		Timeout: cfg.Timeout,
		Logger:  log,
	}), nil
}

// login authenticates docker against the registry once per run.
func login(cmd *cobra.Command, opts *rootOptions, cfg *config.Config, executor *buildx.Executor) error {
	ctx := cmd.Context()

	provider := opts.password
	if provider == nil {
		ssm, err := credentials.NewSSMProvider(ctx, cfg.Registry.PasswordParameter)
		if err != nil {
			return err
		}
		provider = credentials.Chain{credentials.EnvProvider{}, ssm}
	}

	password, err := provider.Password(ctx)
	if err != nil {
		return fmt.Errorf("resolving registry password: %w", err)
	}
	return executor.Login(ctx, cfg.Registry.Host, cfg.Registry.User, password)
}
