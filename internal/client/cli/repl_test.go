package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Status(context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestRunREPL_Dispatch(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	input := strings.Join([]string{
		"help",
		"register",
		"",
		"help",
		"whoami",
		"logout",
		"login",
		"status",
		"dance",
		"exit",
		"login",
	}, "\n")

	runREPL(context.Background(), exec, func() string { return "" }, reader(input))

	assert.Equal(t, []string{"register", "status", "logout", "login", "status"}, exec.calls)
	assert.Contains(t, *lines, "Available commands: register, login, status, exit")
	assert.Contains(t, *lines, "Available commands: status, logout, exit")
	assert.Contains(t, *lines, "Unknown command: dance")
	assert.Contains(t, *lines, "Farewell, traveller!")
}

func TestRunREPL_EndOfInput(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(hero)" }, reader("login"))

	assert.Equal(t, []string{"login"}, exec.calls, "last line without newline still runs")
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(hero)" }, reader("quit\n"))
	assert.Equal(t, "tavern (hero)> ", (*lines)[0])
}
