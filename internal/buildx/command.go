package buildx

import "fmt"

// BuildSpec describes one single-platform `docker buildx build` invocation.
type BuildSpec struct {
	Platform     string     // e.g. "linux/amd64"
	Context      string     // build context directory
	Dockerfile   string     // path to the Dockerfile
	MetadataFile string     // where buildx writes the build descriptor
	Repo         string     // image repository
	Tag          string     // local tag, used only when not pushing
	Push         bool       // push by digest instead of loading locally
	BuildArgs    []BuildArg // extra --build-arg values, in order
}

// BuildArg is a single --build-arg key/value pair.
type BuildArg struct {
	Key   string
	Value string
}

func (a BuildArg) String() string {
	return fmt.Sprintf("--build-arg=%s=%s", a.Key, a.Value)
}

// Args returns the docker arguments for the build.
//
// Pushing builds are pushed by digest only; the tag is attached later by
// the manifest merge. Local builds are loaded into the image store under
// repo:tag.
func (s BuildSpec) Args() []string {
	args := []string{"buildx", "build"}
	if s.Push {
		args = append(args,
			"--push",
			"--output=type=image,push-by-digest=true",
			"--tag="+s.Repo,
		)
	} else {
		args = append(args, "--output=type=docker")
	}

	args = append(args, "--platform="+s.Platform)
	for _, a := range s.BuildArgs {
		args = append(args, a.String())
	}

	if !s.Push {
		args = append(args, fmt.Sprintf("--tag=%s:%s", s.Repo, s.Tag))
	}

	return append(args,
		"--metadata-file="+s.MetadataFile,
		"--progress=plain",
		"--file="+s.Dockerfile,
		s.Context,
	)
}

// ImagetoolsCreateArgs returns the arguments that create target as a
// manifest list over the given source references.
func ImagetoolsCreateArgs(target string, sources []string) []string {
	args := []string{"buildx", "imagetools", "create", "--tag", target}
	return append(args, sources...)
}

// LoginArgs returns the arguments for a password-on-stdin registry login.
func LoginArgs(registry, username string) []string {
	args := []string{"login", "--username", username, "--password-stdin"}
	if registry != "" {
		args = append(args, registry)
	}
	return args
}
