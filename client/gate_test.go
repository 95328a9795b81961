package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namravamja/thinkme/views"
)

// fakeAuth accepts one credential pair and rejects everything else.
type fakeAuth struct {
	email    string
	password string
	taken    map[string]bool
	logins   int
	signups  int
}

func newFakeAuth(email, password string) *fakeAuth {
	return &fakeAuth{email: email, password: password, taken: map[string]bool{}}
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) error {
	f.logins++
	if email != f.email || password != f.password {
		return &AuthError{Message: "Invalid credentials"}
	}
	return nil
}

func (f *fakeAuth) Signup(ctx context.Context, name, email, password string) (views.User, error) {
	f.signups++
	if f.taken[email] {
		return views.User{}, &AuthError{Message: "Email already registered"}
	}
	f.taken[email] = true
	f.email = email
	f.password = password
	return views.User{Name: name, Email: email}, nil
}

// staticRefresher satisfies SessionRefresher without a server.
type staticRefresher struct{ resolved int }

func (s *staticRefresher) Resolve(ctx context.Context) Session {
	s.resolved++
	return Session{IsAuthenticated: true, HasResolved: true}
}

func TestGateStartsClosed(t *testing.T) {
	g := NewGate(newFakeAuth("dana@example.com", "hunter22"))

	assert.Equal(t, GateClosed, g.State())
}

func TestGateModalsAreMutuallyExclusive(t *testing.T) {
	g := NewGate(newFakeAuth("dana@example.com", "hunter22"))

	g.OpenLogin()
	assert.Equal(t, GateLoginOpen, g.State())

	g.OpenSignup()
	assert.Equal(t, GateSignupOpen, g.State())

	g.OpenLogin()
	assert.Equal(t, GateLoginOpen, g.State())

	g.Close()
	assert.Equal(t, GateClosed, g.State())
}

func TestGateCloseLoginIgnoresSignupModal(t *testing.T) {
	g := NewGate(newFakeAuth("dana@example.com", "hunter22"))

	g.OpenSignup()
	g.CloseLogin()

	assert.Equal(t, GateSignupOpen, g.State(),
		"a login-close notification must not dismiss the signup modal")
}

func TestGateFormsSurviveModalSwitch(t *testing.T) {
	g := NewGate(newFakeAuth("dana@example.com", "hunter22"))

	g.OpenLogin()
	g.SetLoginForm(LoginForm{Email: "dana@example.com", Password: "typing..."})
	g.OpenSignup()
	g.OpenLogin()

	assert.Equal(t, "dana@example.com", g.LoginForm().Email)
	assert.Equal(t, "typing...", g.LoginForm().Password)
}

func TestSubmitLoginValidatesBeforeSending(t *testing.T) {
	auth := newFakeAuth("dana@example.com", "hunter22")
	g := NewGate(auth)
	g.OpenLogin()
	g.SetLoginForm(LoginForm{Email: "not-an-email", Password: "hunter22"})

	err := g.SubmitLogin(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
	assert.Equal(t, 0, auth.logins, "invalid input must not reach the server")
	assert.Equal(t, GateLoginOpen, g.State())
}

func TestSubmitLoginFailureKeepsModalAndForm(t *testing.T) {
	g := NewGate(newFakeAuth("dana@example.com", "hunter22"))
	g.OpenLogin()
	g.SetLoginForm(LoginForm{Email: "dana@example.com", Password: "wrong"})

	err := g.SubmitLogin(context.Background())

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, GateLoginOpen, g.State(), "the modal stays open so the user can retry")
	assert.Equal(t, "dana@example.com", g.LoginForm().Email, "the typed email is retained")
	assert.ErrorAs(t, g.Err(), &authErr)
}

func TestSubmitLoginSuccessClosesAndClears(t *testing.T) {
	g := NewGate(newFakeAuth("dana@example.com", "hunter22"))
	refresher := &staticRefresher{}
	g.BindSession(refresher)
	g.OpenLogin()
	g.SetLoginForm(LoginForm{Email: "dana@example.com", Password: "hunter22"})

	err := g.SubmitLogin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, GateClosed, g.State())
	assert.Equal(t, LoginForm{}, g.LoginForm(), "credentials are forgotten after success")
	assert.NoError(t, g.Err())
	assert.Equal(t, 1, refresher.resolved, "the session is refreshed after login")
}

func TestSubmitSignupValidation(t *testing.T) {
	auth := newFakeAuth("", "")
	g := NewGate(auth)
	g.OpenSignup()

	cases := []struct {
		name  string
		form  SignupForm
		field string
	}{
		{"missing name", SignupForm{Email: "a@b.c", Password: "pw"}, "name"},
		{"bad email", SignupForm{Name: "Dana", Email: "nope", Password: "pw"}, "email"},
		{"missing password", SignupForm{Name: "Dana", Email: "a@b.c"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g.SetSignupForm(tc.form)

			err := g.SubmitSignup(context.Background())

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
	assert.Equal(t, 0, auth.signups)
}

func TestSubmitSignupSuccessLogsIn(t *testing.T) {
	auth := newFakeAuth("", "")
	g := NewGate(auth)
	refresher := &staticRefresher{}
	g.BindSession(refresher)
	g.OpenSignup()
	g.SetSignupForm(SignupForm{Name: "Dana", Email: "dana@example.com", Password: "hunter22"})

	err := g.SubmitSignup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, auth.signups)
	assert.Equal(t, 1, auth.logins, "a successful signup logs the account in")
	assert.Equal(t, GateClosed, g.State())
	assert.Equal(t, SignupForm{}, g.SignupForm())
}

func TestSubmitSignupDuplicateEmailKeepsModal(t *testing.T) {
	auth := newFakeAuth("", "")
	auth.taken["dana@example.com"] = true
	g := NewGate(auth)
	g.OpenSignup()
	g.SetSignupForm(SignupForm{Name: "Dana", Email: "dana@example.com", Password: "hunter22"})

	err := g.SubmitSignup(context.Background())

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Email already registered", authErr.Message)
	assert.Equal(t, GateSignupOpen, g.State())
	assert.Equal(t, "dana@example.com", g.SignupForm().Email)
}
