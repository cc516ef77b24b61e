package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dosanma1/docker-server/internal/tags"
	"github.com/dosanma1/docker-server/internal/version"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "docker-server.yaml", `
version: 23.1.2.3
release_type: minor
push: false
os: [alpine]
timeout: 45m
registry:
  user: someone
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &File{
		Version:     "23.1.2.3",
		ReleaseType: "minor",
		Push:        boolPtr(false),
		OS:          []string{"alpine"},
		Timeout:     45 * time.Minute,
		Registry:    Registry{User: "someone"},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(&File{}, f); diff != "" {
		t.Fatalf("file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"missing":     filepath.Join(dir, "nope.yaml"),
		"unknown key": writeFile(t, dir, "unknown.yaml", "image_tag: x\n"),
		"bad yaml":    writeFile(t, dir, "bad.yaml", "os: [ubuntu\n"),
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("RUNNER_TEMP", "/runner/tmp")
	t.Setenv("DOCKER_SERVER_PUSH", "false")
	t.Setenv("DOCKER_SERVER_TIMEOUT", "10m")
	t.Setenv("DOCKER_SERVER_BUCKET_PREFIX", "https://bucket/prefix")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.RunnerTemp != "/runner/tmp" || env.BucketPrefix != "https://bucket/prefix" {
		t.Fatalf("env = %+v", env)
	}
	if env.Push == nil || *env.Push {
		t.Fatalf("Push = %v, want false", env.Push)
	}
	if env.Parallel != nil {
		t.Fatalf("Parallel = %v, want unset", *env.Parallel)
	}
	if env.Timeout != 10*time.Minute {
		t.Fatalf("Timeout = %s", env.Timeout)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("DOCKER_SERVER_PARALLEL", "sometimes")
	if _, err := LoadEnv(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	valid := writeFile(t, dir, "valid.yaml", `
version: 22.3.1.1
release_type: latest
os: [ubuntu, alpine]
timeout: 1h30m
registry:
  host: registry.example.com
`)
	violations, err := ValidateFile(valid)
	if err != nil || len(violations) != 0 {
		t.Fatalf("ValidateFile(valid) = %v, %v", violations, err)
	}

	invalid := writeFile(t, dir, "invalid.yaml", `
version: "22.3"
release_type: nightly
push: "yes"
`)
	violations, err = ValidateFile(invalid)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
	fields := map[string]bool{}
	for _, v := range violations {
		fields[v.Field] = true
	}
	for _, f := range []string{"version", "release_type", "push"} {
		if !fields[f] {
			t.Errorf("no violation reported for %s: %v", f, violations)
		}
	}
}

func TestValidateFileUnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "registry:\n  password: hunter2\n")
	if _, err := ValidateFile(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestResolveOS(t *testing.T) {
	tests := []struct {
		name     string
		file     []string
		excluded []string
		want     []string
		err      error
	}{
		{name: "defaults", want: []string{"ubuntu", "alpine"}},
		{name: "no ubuntu", excluded: []string{"ubuntu"}, want: []string{"alpine"}},
		{name: "no alpine", excluded: []string{"alpine"}, want: []string{"ubuntu"}},
		{name: "file order kept", file: []string{"alpine", "ubuntu", "alpine"}, want: []string{"alpine", "ubuntu"}},
		{name: "everything excluded", excluded: []string{"ubuntu", "alpine"}, err: ErrNoOS},
		{name: "skip unknown", file: []string{"ubuntu"}, excluded: []string{"debian"}, want: []string{"ubuntu"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&File{OS: tt.file}, Env{})
			got, err := r.ResolveOS(tt.excluded)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("os mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlagsExcludedOS(t *testing.T) {
	f := Flags{NoUbuntu: true, NoAlpine: true, SkipOS: []string{"centos"}}
	if diff := cmp.Diff([]string{"ubuntu", "alpine", "centos"}, f.ExcludedOS()); diff != "" {
		t.Fatalf("excluded mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, version.VersionFile, "SET(VERSION_STRING 24.1.1.5)\n")

	cfg, err := NewResolver(nil, Env{RunnerTemp: "/runner"}).Resolve(Flags{RepoRoot: root})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := &Config{
		Version:     "24.1.1.5",
		ReleaseType: tags.ReleasePatch,
		ImagePath:   filepath.Join(root, DefaultImagePath),
		ImageRepo:   DefaultImageRepo,
		Push:        true,
		OS:          []string{"ubuntu", "alpine"},
		RepoRoot:    root,
		ScratchDir:  filepath.Join("/runner", ScratchDirName),
		Registry: Registry{
			User:              DefaultRegistryUser,
			PasswordParameter: DefaultPasswordParameter,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePrecedence(t *testing.T) {
	root := t.TempDir()
	timeout := 5 * time.Minute

	file := &File{
		Version:     "22.1.1.1",
		ReleaseType: "major",
		ImageRepo:   "file/repo",
		ImagePath:   "/abs/image",
		Push:        boolPtr(false),
		Parallel:    boolPtr(true),
		Timeout:     time.Hour,
		ScratchDir:  "/file/scratch",
	}
	env := Env{
		Version:      "21.1.1.1",
		ReleaseType:  "minor",
		ImageRepo:    "env/repo",
		BucketPrefix: "https://env/bucket",
		Push:         boolPtr(true),
		Timeout:      2 * time.Hour,
		RunnerTemp:   "/runner",
	}
	flags := Flags{
		RepoRoot:    root,
		ReleaseType: "head",
		Parallel:    boolPtr(false),
		Timeout:     &timeout,
	}

	cfg, err := NewResolver(file, env).Resolve(flags)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	checks := []struct {
		name      string
		got, want any
	}{
		{"version from file", cfg.Version, version.Version("22.1.1.1")},
		{"release type from flag", cfg.ReleaseType, tags.ReleaseHead},
		{"repo from file", cfg.ImageRepo, "file/repo"},
		{"absolute image path kept", cfg.ImagePath, "/abs/image"},
		{"bucket from env", cfg.BucketPrefix, "https://env/bucket"},
		{"push from file", cfg.Push, false},
		{"parallel from flag", cfg.Parallel, false},
		{"timeout from flag", cfg.Timeout, timeout},
		{"scratch from file", cfg.ScratchDir, "/file/scratch"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	root := t.TempDir()
	negative := -time.Second

	tests := []struct {
		name  string
		file  *File
		flags Flags
		err   error
	}{
		{"bad version", nil, Flags{Version: "22.1"}, version.ErrInvalidVersion},
		{"bad release type", &File{Version: "22.1.1.1", ReleaseType: "nightly"}, Flags{}, tags.ErrInvalidReleaseType},
		{"no os", &File{Version: "22.1.1.1"}, Flags{NoUbuntu: true, NoAlpine: true}, ErrNoOS},
		{"negative timeout", &File{Version: "22.1.1.1"}, Flags{Timeout: &negative}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.flags.RepoRoot = root
			_, err := NewResolver(tt.file, Env{}).Resolve(tt.flags)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestResolveVersionFromRepoMissing(t *testing.T) {
	if _, err := NewResolver(nil, Env{}).ResolveVersion("", t.TempDir()); err == nil {
		t.Fatal("expected an error without a version file")
	}
}

func TestResolveScratchDirSystemTemp(t *testing.T) {
	got := NewResolver(nil, Env{}).ResolveScratchDir("")
	if want := filepath.Join(os.TempDir(), ScratchDirName); got != want {
		t.Fatalf("scratch dir = %q, want %q", got, want)
	}
}
