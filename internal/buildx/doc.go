// Package buildx runs docker buildx as an external process.
//
// Commands are built as explicit argument lists and run without a shell.
// The combined stdout and stderr of every process is streamed line by line
// to the caller's writer while it runs, and the last lines are kept so a
// failed build can be summarized with a short hint.
//
// Example usage:
//
//	exec := buildx.NewExecutor(buildx.ExecutorOptions{Output: os.Stdout})
//	outcome, err := exec.Build(ctx, buildx.BuildSpec{
//	    Platform:     "linux/amd64",
//	    Context:      "docker/server",
//	    Dockerfile:   "docker/server/Dockerfile.ubuntu",
//	    MetadataFile: "/tmp/docker_images_check/head-amd64",
//	    Repo:         "clickhouse/clickhouse-server",
//	    Tag:          "head-amd64",
//	}, os.Stdout)
package buildx
