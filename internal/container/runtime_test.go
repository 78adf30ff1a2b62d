// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout io.Writer) error
	pipedArgs     []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.pipedArgs = args
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func operational(bins ...string) *mockExecutor {
	m := &mockExecutor{availableBins: map[string]bool{}, runnableCmds: map[string]bool{}}
	for _, b := range bins {
		m.availableBins[b] = true
		m.runnableCmds[b+" info"] = true
	}
	return m
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name      string
		exec      *mockExecutor
		preferred string
		wantName  string
		wantErr   string
	}{
		{name: "docker available", exec: operational("docker"), wantName: "docker"},
		{name: "podman fallback when docker missing", exec: operational("podman"), wantName: "podman"},
		{name: "both available, docker first", exec: operational("docker", "podman"), wantName: "docker"},
		{name: "preference honored", exec: operational("docker", "podman"), preferred: "podman", wantName: "podman"},
		{name: "preferred runtime missing", exec: operational("docker"), preferred: "podman", wantErr: "tried podman"},
		{name: "unknown preference", exec: operational("docker"), preferred: "containerd", wantErr: "unknown container runtime"},
		{name: "neither available", exec: operational(), wantErr: "no container runtime available"},
		{
			name: "docker on PATH but info fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec, tt.preferred)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		bin     string
		cmds    map[string]bool
		wantErr bool
	}{
		{name: "docker image exists", bin: "docker", cmds: map[string]bool{"docker image inspect markitdown:latest": true}},
		{name: "docker image not found", bin: "docker", cmds: map[string]bool{}, wantErr: true},
		{name: "podman image exists", bin: "podman", cmds: map[string]bool{"podman image exists markitdown:latest": true}},
		{name: "podman image not found", bin: "podman", cmds: map[string]bool{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := newRuntime(tt.bin, &mockExecutor{runnableCmds: tt.cmds})
			if err != nil {
				t.Fatal(err)
			}
			err = rt.ImageExists("markitdown:latest")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "markitdown:latest") {
					t.Errorf("error should mention image name, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	echo := func(name string, _ []string, stdin io.Reader, stdout io.Writer) error {
		data, _ := io.ReadAll(stdin)
		_, _ = stdout.Write([]byte(name + ": " + string(data)))
		return nil
	}

	for _, bin := range []string{"docker", "podman"} {
		t.Run(bin, func(t *testing.T) {
			exec := &mockExecutor{runPipedFunc: echo}
			rt, err := newRuntime(bin, exec)
			if err != nil {
				t.Fatal(err)
			}
			var out bytes.Buffer
			if err := rt.Run(context.Background(), "markitdown:latest", strings.NewReader("Patient: hello"), &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got, want := out.String(), bin+": Patient: hello"; got != want {
				t.Errorf("got output %q, want %q", got, want)
			}
			if got := strings.Join(exec.pipedArgs, " "); got != "run --rm -i --network=none markitdown:latest" {
				t.Errorf("container args = %q", got)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	exec := &mockExecutor{runPipedFunc: func(string, []string, io.Reader, io.Writer) error {
		return errors.New("container exited with code 1")
	}}
	rt, _ := newRuntime("docker", exec)
	err := rt.Run(context.Background(), "markitdown:latest", strings.NewReader(""), io.Discard)
	if err == nil || !strings.Contains(err.Error(), "exited with code 1") {
		t.Errorf("expected wrapped container error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rt.Run(ctx, "markitdown:latest", strings.NewReader(""), io.Discard); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
