package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dosanma1/docker-server/internal/buildx"
	"github.com/dosanma1/docker-server/internal/metadata"
)

// Builder runs image builds and manifest merges. [buildx.Executor]
// implements it.
type Builder interface {
	Build(ctx context.Context, spec buildx.BuildSpec, out io.Writer) (buildx.Outcome, error)
	CreateManifest(ctx context.Context, target string, sources []string, out io.Writer) (buildx.Outcome, error)
}

// Options controls what the publisher builds and where it pushes.
type Options struct {
	Image         Image
	Push          bool           // push by digest and merge; otherwise load locally
	BucketPrefix  string         // package repository prefix; empty disables the build args
	Version       string         // value of the VERSION build argument
	ScratchDir    string         // directory for build descriptor files
	Parallel      bool           // build architectures of one tag concurrently
	Architectures []Architecture // defaults to Architectures
	Output        io.Writer      // build output; defaults to os.Stdout
}

// Publisher builds and publishes server images.
type Publisher struct {
	builder Builder
	opts    Options
	log     logrus.FieldLogger
}

// New creates a publisher that runs builds through builder.
func New(builder Builder, opts Options, log logrus.FieldLogger) *Publisher {
	if len(opts.Architectures) == 0 {
		opts.Architectures = Architectures
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{builder: builder, opts: opts, log: log}
}

// Run builds every tag for every OS variant, in order.
//
// A failed (OS, tag) pair does not stop the others. The returned results
// cover everything attempted; an error means the run was cut short.
func (p *Publisher) Run(ctx context.Context, oses []string, tags []string) ([]Result, error) {
	var all []Result
	for _, osName := range oses {
		for _, tag := range tags {
			results, err := p.BuildAndPush(ctx, osName, tag)
			all = append(all, results...)
			if err != nil {
				return all, fmt.Errorf("publishing %s:%s: %w", p.opts.Image.Repo, EffectiveTag(osName, tag), err)
			}
		}
	}
	return all, nil
}

// BuildAndPush builds tag for one OS variant on every architecture and,
// when pushing, merges the architecture images under the effective tag.
func (p *Publisher) BuildAndPush(ctx context.Context, osName, tag string) ([]Result, error) {
	tag = EffectiveTag(osName, tag)

	var (
		results []Result
		digests []string
	)

	builds, err := p.buildArchitectures(ctx, osName, tag)
	for _, b := range builds {
		if b.result.Image == "" {
			continue
		}
		results = append(results, b.result)
		if !b.result.Failed() {
			digests = append(digests, b.digest.String())
		}
	}
	if err != nil {
		return results, err
	}
	if len(digests) != len(p.opts.Architectures) {
		return results, nil
	}

	if !p.opts.Push {
		p.log.Infof("Merging is available only on push, separate %s:%s-$arch images are created", p.opts.Image.Repo, tag)
		return results, nil
	}

	merged, err := p.merge(ctx, tag, digests)
	if err != nil {
		return results, err
	}
	return append(results, merged), nil
}

// archBuild is the outcome of one architecture build.
type archBuild struct {
	result Result
	digest digest.Digest
}

// buildArchitectures runs the architecture builds for one effective tag.
//
// Sequential builds stop at the first failure. Parallel builds all run to
// completion. Builds that never ran are left zero.
func (p *Publisher) buildArchitectures(ctx context.Context, osName, tag string) ([]archBuild, error) {
	builds := make([]archBuild, len(p.opts.Architectures))

	if !p.opts.Parallel {
		for i, arch := range p.opts.Architectures {
			b, err := p.buildArch(ctx, osName, tag, arch, p.opts.Output)
			builds[i] = b
			if err != nil || b.result.Failed() {
				return builds, err
			}
		}
		return builds, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, arch := range p.opts.Architectures {
		out := &prefixWriter{mu: &mu, w: p.opts.Output, prefix: "[" + string(arch) + "] "}
		g.Go(func() error {
			b, err := p.buildArch(gctx, osName, tag, arch, out)
			builds[i] = b
			return err
		})
	}
	return builds, g.Wait()
}

// buildArch builds one architecture image and reads back its digest.
func (p *Publisher) buildArch(ctx context.Context, osName, tag string, arch Architecture, out io.Writer) (archBuild, error) {
	archTag := tag + "-" + string(arch)
	image := p.opts.Image.Repo + ":" + archTag
	log := p.log.WithFields(logrus.Fields{"repo": p.opts.Image.Repo, "tag": tag, "arch": arch, "os": osName})

	spec := buildx.BuildSpec{
		Platform:     arch.Platform(),
		Context:      p.opts.Image.Path,
		Dockerfile:   filepath.Join(p.opts.Image.Path, "Dockerfile."+osName),
		MetadataFile: filepath.Join(p.opts.ScratchDir, archTag),
		Repo:         p.opts.Image.Repo,
		Tag:          archTag,
		Push:         p.opts.Push,
		BuildArgs:    p.buildArgs(arch),
	}

	log.Infof("Building image %s:%s for arch %s", p.opts.Image.Repo, tag, arch)
	outcome, err := p.builder.Build(ctx, spec, out)
	if err != nil {
		return archBuild{}, fmt.Errorf("building %s: %w", image, err)
	}

	if !outcome.OK() {
		log.WithField("exit_code", outcome.ExitCode).Error("image build failed")
		return archBuild{result: Result{Image: image, Status: StatusFail, Hint: outcome.Hint}}, nil
	}

	b := archBuild{result: Result{Image: image, Status: StatusOK}}
	desc, err := metadata.Read(spec.MetadataFile)
	if err != nil {
		return b, fmt.Errorf("reading descriptor of %s: %w", image, err)
	}
	b.digest = desc.Digest

	log.WithField("digest", desc.Digest).Info("image built")
	return b, nil
}

// buildArgs returns the build arguments for arch, package repository first.
func (p *Publisher) buildArgs(arch Architecture) []buildx.BuildArg {
	var args []buildx.BuildArg
	if p.opts.BucketPrefix != "" {
		url := repositoryURL(p.opts.BucketPrefix, arch)
		args = append(args,
			buildx.BuildArg{Key: "REPOSITORY", Value: url},
			buildx.BuildArg{Key: "deb_location_url", Value: url},
		)
	}
	return append(args, buildx.BuildArg{Key: "VERSION", Value: p.opts.Version})
}

// merge creates the multi-architecture tag from the architecture digests.
func (p *Publisher) merge(ctx context.Context, tag string, digests []string) (Result, error) {
	target := p.opts.Image.Repo + ":" + tag
	p.log.WithFields(logrus.Fields{"repo": p.opts.Image.Repo, "tag": tag}).Infof("Pushing merged %s image", target)

	outcome, err := p.builder.CreateManifest(ctx, target, digests, p.opts.Output)
	if err != nil {
		return Result{}, fmt.Errorf("merging %s: %w", target, err)
	}
	if !outcome.OK() {
		p.log.WithField("exit_code", outcome.ExitCode).Errorf("merging %s failed", target)
		return Result{Image: target, Status: StatusFail, Hint: outcome.Hint}, nil
	}
	return Result{Image: target, Status: StatusOK}, nil
}

// prefixWriter prefixes each line written to w. Writes from concurrent
// builds are serialized through mu. A line split over several writes is
// prefixed once.
type prefixWriter struct {
	mu      *sync.Mutex
	w       io.Writer
	prefix  string
	midLine bool
}

func (pw *prefixWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.midLine {
		if _, err := io.WriteString(pw.w, pw.prefix); err != nil {
			return 0, err
		}
	}
	if _, err := pw.w.Write(p); err != nil {
		return 0, err
	}
	pw.midLine = p[len(p)-1] != '\n'
	return len(p), nil
}
