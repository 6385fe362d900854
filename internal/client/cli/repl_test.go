package cli

import (
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
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
func (f *fakeExec) Verify(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "verify")
	f.args = args
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error { f.calls = append(f.calls, "me"); return nil }
func (f *fakeExec) ChangeEmail(ctx context.Context) error {
	f.calls = append(f.calls, "email")
	return nil
}
func (f *fakeExec) ChangePassword(ctx context.Context) error {
	f.calls = append(f.calls, "password")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silencePrint(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	printed := silencePrint(t)

	input := rdr(strings.Join([]string{
		"help",
		"register",
		"verify abc-123",
		"login",
		"help",
		"me",
		"email",
		"password",
		"logout",
		"foobar",
		"exit",
		"me",
	}, "\n"))

	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "status" }, input)

	want := []string{"register", "verify", "login", "me", "email", "password", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if len(exec.args) != 1 || exec.args[0] != "abc-123" {
		t.Fatalf("verify args = %v", exec.args)
	}

	joined := strings.Join(*printed, "\n")
	for _, s := range []string{"Available commands: register, login, verify, exit", "Available commands: me, email", "Unknown command: foobar", "Bye!"} {
		if !strings.Contains(joined, s) {
			t.Fatalf("output misses %q:\n%s", s, joined)
		}
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	silencePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("\n\nlogin"))

	if len(exec.calls) != 1 || exec.calls[0] != "login" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
