package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) LogMood(ctx context.Context) error {
	f.calls = append(f.calls, "mood")
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Summary(ctx context.Context) error {
	f.calls = append(f.calls, "summary")
	return nil
}
func (f *fakeExec) Phase(ctx context.Context) error { f.calls = append(f.calls, "phase"); return nil }

func runScript(t *testing.T, fake *fakeExec, lines ...string) {
	t.Helper()

	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	runREPL(context.Background(), fake, func() string { return "test" }, bufio.NewScanner(input))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	fake := &fakeExec{}
	runScript(t, fake, "mood", "list", "login", "summary", "phase", "status", "logout", "exit")

	want := []string{"mood", "list", "login", "summary", "phase", "status", "logout"}
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Errorf("dispatched calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunREPL_IgnoresBlankAndUnknown(t *testing.T) {
	fake := &fakeExec{}
	runScript(t, fake, "", "   ", "frobnicate", "l", "quit")

	want := []string{"list"}
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Errorf("dispatched calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	fake := &fakeExec{}
	// No exit command; the scanner just runs dry.
	runScript(t, fake, "mood")

	want := []string{"mood"}
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Errorf("dispatched calls mismatch (-want +got):\n%s", diff)
	}
}
