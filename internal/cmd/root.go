package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dosanma1/docker-server/internal/buildx"
	"github.com/dosanma1/docker-server/internal/config"
	"github.com/dosanma1/docker-server/internal/credentials"
)

// ErrBuildsFailed is returned when the run finished but at least one image
// failed to build or merge.
var ErrBuildsFailed = errors.New("some images failed to build")

// rootOptions holds the root command flags and the dependencies tests
// replace.
type rootOptions struct {
	configPath string
	verbose    bool
	logFormat  string

	flags    config.Flags
	push     bool
	noPush   bool
	parallel bool
	timeout  time.Duration

	runner   buildx.Runner
	password credentials.Provider
	lookPath func(string) (string, error)
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docker-server",
		Short: "Build and push the multi-architecture server images",
		Long: `Builds the server image for every architecture, OS variant and tag of a
release, pushes the architecture images by digest and merges them into
multi-architecture tags.

Tags are derived from the version and release type:
  latest  latest, 22, 22.2, 22.2.2, 22.2.2.2
  major   22, 22.2, 22.2.2, 22.2.2.2
  minor   22.2, 22.2.2, 22.2.2.2
  patch   22.2.2, 22.2.2.2
  head    head

Examples:
  docker-server --release-type=latest
  docker-server --version=22.2.2.2 --no-push-images
  docker-server --no-alpine --bucket-prefix=https://s3.amazonaws.com/builds/22.2/sha
  docker-server --config=docker-server.yaml --parallel`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format (text|json)")
	pf.StringVar(&opts.flags.Version, "version", "", "Server version; defaults to VERSION_STRING from the repository")
	pf.StringVar(&opts.flags.ReleaseType, "release-type", "", "Release type (latest|major|minor|patch|head); default patch")
	pf.StringVar(&opts.flags.RepoRoot, "repo-root", "", "Repository root; defaults to the current directory")

	f := cmd.Flags()
	f.StringVar(&opts.flags.ImagePath, "image-path", "", "Image build context, relative to the repository root (default \""+config.DefaultImagePath+"\")")
	f.StringVar(&opts.flags.ImageRepo, "image-repo", "", "Image repository (default \""+config.DefaultImageRepo+"\")")
	f.StringVar(&opts.flags.BucketPrefix, "bucket-prefix", "", "Package bucket prefix passed to the image build")
	f.StringVar(&opts.flags.ScratchDir, "scratch-dir", "", "Directory for build descriptors (default $RUNNER_TEMP/"+config.ScratchDirName+")")
	f.StringVar(&opts.flags.ReportPath, "report", "", "Write a JSON report to this path")
	f.StringVar(&opts.flags.Docker, "docker", "", "Docker binary")
	f.BoolVar(&opts.push, "push", true, "Push images and merge multi-architecture tags")
	f.BoolVar(&opts.noPush, "no-push-images", false, "Build images locally without pushing")
	f.BoolVar(&opts.parallel, "parallel", false, "Build the architectures of a tag concurrently")
	f.DurationVar(&opts.timeout, "timeout", 0, "Timeout for each docker process (0 disables)")
	f.BoolVar(&opts.flags.NoUbuntu, "no-ubuntu", false, "Do not build the ubuntu images")
	f.BoolVar(&opts.flags.NoAlpine, "no-alpine", false, "Do not build the alpine images")
	f.StringSliceVar(&opts.flags.SkipOS, "skip-os", nil, "OS variants to skip")

	cmd.AddCommand(
		newTagsCmd(opts),
		newValidateCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line until completion or until ctx is done.
func Execute(ctx context.Context) error {
	return newRootCmd(&rootOptions{}).ExecuteContext(ctx)
}

// loadResolver builds a resolver from the config file, if any, and the
// environment.
func loadResolver(configPath string) (*config.Resolver, error) {
	var file *config.File
	if configPath != "" {
		f, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		file = f
	}

	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	return config.NewResolver(file, env), nil
}
