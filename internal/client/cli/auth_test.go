package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tavernauth/internal/client/services"
	"github.com/dmitrijs2005/tavernauth/internal/client/tokenstore"
	"github.com/dmitrijs2005/tavernauth/internal/logging"
)

// stubInputs answers text prompts in order and returns password for every
// password prompt. It also returns the password slice so tests can check
// that it was wiped.
func stubInputs(t *testing.T, answers []string, password string) []byte {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	pw := []byte(password)
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) { return pw, nil }
	return pw
}

// fakeAuth implements services.AuthService and records its calls.
type fakeAuth struct {
	loginIdentifier, loginPassword string
	regUsername, regEmail, regPass string
	logoutCalled                   bool

	outcome services.Outcome
	session        *tokenstore.Record
	expired        bool
	refreshExpired bool
}

func (f *fakeAuth) Login(_ context.Context, identifier, password string) services.Outcome {
	f.loginIdentifier, f.loginPassword = identifier, password
	return f.outcome
}

func (f *fakeAuth) Register(_ context.Context, username, email, password string) services.Outcome {
	f.regUsername, f.regEmail, f.regPass = username, email, password
	return f.outcome
}

func (f *fakeAuth) Logout(context.Context) services.Outcome {
	f.logoutCalled = true
	f.session = nil
	return f.outcome
}

func (f *fakeAuth) IsAuthenticated(context.Context) bool      { return f.session != nil }
func (f *fakeAuth) IsAccessTokenExpired(context.Context) bool { return f.expired }
func (f *fakeAuth) IsRefreshTokenExpired(context.Context) bool {
	return f.refreshExpired
}
func (f *fakeAuth) IsSessionValid(context.Context) bool       { return f.session != nil && !f.expired }

func (f *fakeAuth) Session(context.Context) (tokenstore.Record, bool) {
	if f.session == nil {
		return tokenstore.Record{}, false
	}
	return *f.session, true
}

func newTestApp(f *fakeAuth) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		authService: f,
		log:         logging.NewNop(),
		reader:      bufio.NewReader(strings.NewReader("")),
		out:         &out,
	}, &out
}

var succeeded = services.Outcome{State: services.StateSucceeded, Message: "Login successful.", Navigate: services.NavigateAuthenticated}

func TestLogin_PassesInputAndPrintsMessage(t *testing.T) {
	f := &fakeAuth{outcome: succeeded}
	a, out := newTestApp(f)
	pw := stubInputs(t, []string{"hero@example.com"}, "longenough1")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "hero@example.com", f.loginIdentifier)
	assert.Equal(t, "longenough1", f.loginPassword)
	assert.Contains(t, out.String(), "Login successful.")
	assert.Equal(t, make([]byte, len(pw)), pw, "password bytes wiped")
}

func TestPasswordString_CopiesThenZeroesBuffer(t *testing.T) {
	buf := []byte("longenough1")

	got := passwordString(buf)
	assert.Equal(t, "longenough1", got)
	assert.Equal(t, make([]byte, len("longenough1")), buf)
}

func TestLogin_FailureBecomesError(t *testing.T) {
	f := &fakeAuth{outcome: services.Outcome{State: services.StateFailed, Kind: services.KindHTTP, Message: services.MsgUnauthorized}}
	a, out := newTestApp(f)
	stubInputs(t, []string{"hero"}, "wrongpass")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, services.MsgUnauthorized, err.Error())
	assert.Contains(t, out.String(), services.MsgUnauthorized)
}

func TestLogin_InputErrorStopsEarly(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f)
	stubInputs(t, nil, "x")

	assert.ErrorIs(t, a.Login(context.Background()), io.EOF)
	assert.Empty(t, f.loginIdentifier)
}

func TestRegister_AsksThreeQuestions(t *testing.T) {
	f := &fakeAuth{outcome: services.Outcome{State: services.StateSucceeded, Message: "Registration successful."}}
	a, out := newTestApp(f)
	pw := stubInputs(t, []string{"hero", "hero@example.com"}, "longenough1")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "hero", f.regUsername)
	assert.Equal(t, "hero@example.com", f.regEmail)
	assert.Equal(t, "longenough1", f.regPass)
	assert.Contains(t, out.String(), "Registration successful.")
	assert.Equal(t, make([]byte, len(pw)), pw, "password bytes wiped")
}

func TestRegister_PasswordError(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f)
	stubInputs(t, []string{"hero", "hero@example.com"}, "")
	getPassword = func(string, io.Writer) ([]byte, error) { return nil, errors.New("not a terminal") }

	require.Error(t, a.Register(context.Background()))
	assert.Empty(t, f.regUsername)
}

func TestLogout(t *testing.T) {
	f := &fakeAuth{
		outcome: services.Outcome{State: services.StateSucceeded, Message: "Logged out.", Navigate: services.NavigateUnauthenticated},
		session: &tokenstore.Record{Username: "hero"},
	}
	a, out := newTestApp(f)

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, f.logoutCalled)
	assert.Contains(t, out.String(), "Logged out.")
	assert.False(t, a.isLoggedIn(context.Background()))
}

func TestStatus(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f)

	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "Not logged in.")

	out.Reset()
	f.session = &tokenstore.Record{Username: "hero", UserID: "42", LoginTimestamp: 1_700_000_000_000}
	f.expired = true
	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "Hero:      hero")
	assert.Contains(t, out.String(), "User ID:   42")
	assert.Contains(t, out.String(), "Email:     -")
	assert.Contains(t, out.String(), "expired (expires unknown)")
	assert.NotContains(t, out.String(), "Refresh:")

	out.Reset()
	f.session = &tokenstore.Record{Username: "hero", RefreshToken: "r", RefreshTokenExpiresAt: tokenstore.Millis(1_700_000_000_000)}
	f.refreshExpired = true
	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "Refresh:   expired (expires ")
}
