package buildx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildSpecArgsPush(t *testing.T) {
	spec := BuildSpec{
		Platform:     "linux/arm64",
		Context:      "/repo/docker/server",
		Dockerfile:   "/repo/docker/server/Dockerfile.alpine",
		MetadataFile: "/tmp/scratch/22.2-alpine-arm64",
		Repo:         "clickhouse/clickhouse-server",
		Tag:          "22.2-alpine-arm64",
		Push:         true,
		BuildArgs: []BuildArg{
			{Key: "REPOSITORY", Value: "https://s3.example.com/package_aarch64"},
			{Key: "VERSION", Value: "22.2.2.2"},
		},
	}

	want := []string{
		"buildx", "build",
		"--push",
		"--output=type=image,push-by-digest=true",
		"--tag=clickhouse/clickhouse-server",
		"--platform=linux/arm64",
		"--build-arg=REPOSITORY=https://s3.example.com/package_aarch64",
		"--build-arg=VERSION=22.2.2.2",
		"--metadata-file=/tmp/scratch/22.2-alpine-arm64",
		"--progress=plain",
		"--file=/repo/docker/server/Dockerfile.alpine",
		"/repo/docker/server",
	}
	if diff := cmp.Diff(want, spec.Args()); diff != "" {
		t.Fatalf("Args() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSpecArgsLoad(t *testing.T) {
	spec := BuildSpec{
		Platform:     "linux/amd64",
		Context:      "ctx",
		Dockerfile:   "ctx/Dockerfile.ubuntu",
		MetadataFile: "meta",
		Repo:         "repo",
		Tag:          "head-amd64",
	}

	want := []string{
		"buildx", "build",
		"--output=type=docker",
		"--platform=linux/amd64",
		"--tag=repo:head-amd64",
		"--metadata-file=meta",
		"--progress=plain",
		"--file=ctx/Dockerfile.ubuntu",
		"ctx",
	}
	if diff := cmp.Diff(want, spec.Args()); diff != "" {
		t.Fatalf("Args() mismatch (-want +got):\n%s", diff)
	}
}
