package buildx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/sirupsen/logrus"
)

// DefaultDocker is the docker binary used when none is configured.
const DefaultDocker = "docker"

// tailLines is how many trailing output lines are kept for failure hints.
const tailLines = 50

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Docker  string        // docker binary; defaults to DefaultDocker
	Runner  Runner        // process runner; defaults to ExecRunner
	Output  io.Writer     // default output for streamed process output
	Timeout time.Duration // per-process timeout; zero means none
	Logger  logrus.FieldLogger
}

// Executor handles docker command execution.
type Executor struct {
	docker     string
	runner     Runner
	output     io.Writer
	timeout    time.Duration
	log        logrus.FieldLogger
	translator *ErrorTranslator
}

// Outcome is the result of a process that ran to completion.
type Outcome struct {
	ExitCode int
	Hint     string // short explanation derived from the output tail on failure
}

// OK reports whether the process exited with status zero.
func (o Outcome) OK() bool {
	return o.ExitCode == 0
}

// NewExecutor creates a new docker executor.
func NewExecutor(opts ExecutorOptions) *Executor {
	e := &Executor{
		docker:     opts.Docker,
		runner:     opts.Runner,
		output:     opts.Output,
		timeout:    opts.Timeout,
		log:        opts.Logger,
		translator: NewErrorTranslator(),
	}
	if e.docker == "" {
		e.docker = DefaultDocker
	}
	if e.runner == nil {
		e.runner = ExecRunner{WaitDelay: 10 * time.Second}
	}
	if e.output == nil {
		e.output = os.Stdout
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

// FindDocker locates the docker binary in PATH.
func FindDocker(name string) (string, error) {
	if name == "" {
		name = DefaultDocker
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("docker not found: %w", err)
	}
	return path, nil
}

// Build runs a single-platform image build.
func (e *Executor) Build(ctx context.Context, spec BuildSpec, out io.Writer) (Outcome, error) {
	return e.execute(ctx, spec.Args(), nil, out)
}

// CreateManifest merges sources into a multi-platform manifest tagged target.
func (e *Executor) CreateManifest(ctx context.Context, target string, sources []string, out io.Writer) (Outcome, error) {
	return e.execute(ctx, ImagetoolsCreateArgs(target, sources), nil, out)
}

// Login authenticates against registry, passing the password on stdin.
// An empty registry means Docker Hub.
func (e *Executor) Login(ctx context.Context, registry, username, password string) error {
	outcome, err := e.execute(ctx, LoginArgs(registry, username), strings.NewReader(password), nil)
	if err != nil {
		return fmt.Errorf("docker login failed: %w", err)
	}
	if !outcome.OK() {
		return fmt.Errorf("docker login failed with exit code %d: %s", outcome.ExitCode, outcome.Hint)
	}
	return nil
}

// CommandLine returns the shell-quoted command line for args, for logging.
func (e *Executor) CommandLine(args []string) string {
	return shellescape.QuoteCommand(append([]string{e.docker}, args...))
}

// execute runs docker with args, streaming output to out (or the default
// output when out is nil).
func (e *Executor) execute(ctx context.Context, args []string, stdin io.Reader, out io.Writer) (Outcome, error) {
	if out == nil {
		out = e.output
	}

	procCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		procCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.log.WithField("command", e.CommandLine(args)).Info("running docker")

	tail := newTailWriter(tailLines)
	code, err := e.runner.Run(procCtx, Command{
		Name:   e.docker,
		Args:   args,
		Stdin:  stdin,
		Output: io.MultiWriter(out, tail),
	})
	if err != nil {
		// Only the process deadline expired: the run goes on and the
		// image is reported as failed.
		if ctx.Err() == nil && errors.Is(procCtx.Err(), context.DeadlineExceeded) {
			e.log.WithField("timeout", e.timeout).Error("docker timed out")
			return Outcome{ExitCode: -1, Hint: fmt.Sprintf("timed out after %s", e.timeout)}, nil
		}
		return Outcome{ExitCode: code}, err
	}

	outcome := Outcome{ExitCode: code}
	if code != 0 {
		outcome.Hint = e.translator.Translate(tail.Lines())
	}
	return outcome, nil
}
