package client

import (
	"context"
	"strings"
	"sync"

	"github.com/namravamja/thinkme/views"
)

// GateState names which auth modal, if any, is showing. Login and signup
// are mutually exclusive: opening one closes the other.
type GateState int

const (
	GateClosed GateState = iota
	GateLoginOpen
	GateSignupOpen
)

func (s GateState) String() string {
	switch s {
	case GateLoginOpen:
		return "login"
	case GateSignupOpen:
		return "signup"
	default:
		return "closed"
	}
}

// LoginForm holds the login modal's field values.
type LoginForm struct {
	Email    string
	Password string
}

// SignupForm holds the signup modal's field values.
type SignupForm struct {
	Name     string
	Email    string
	Password string
}

// Authenticator performs credential operations. *Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, name, email, password string) (views.User, error)
}

// SessionRefresher re-checks the session after a successful login.
// *Resolver satisfies it.
type SessionRefresher interface {
	Resolve(ctx context.Context) Session
}

// Gate coordinates the login and signup modals: which one is open, what
// the user has typed, and the last submission error. On a failed submit
// the modal stays open and the form keeps its values so the user can
// correct them; on success the gate closes and clears everything.
type Gate struct {
	auth      Authenticator
	refresher SessionRefresher

	mu        sync.Mutex
	state     GateState
	login     LoginForm
	signup    SignupForm
	submitErr error
}

// NewGate creates a Gate over the given Authenticator.
func NewGate(auth Authenticator) *Gate {
	return &Gate{auth: auth}
}

// BindSession wires the resolver that is refreshed after a successful
// login. Kept separate from NewGate because gate and resolver reference
// each other.
func (g *Gate) BindSession(r SessionRefresher) {
	g.mu.Lock()
	g.refresher = r
	g.mu.Unlock()
}

// State returns which modal is currently open.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err returns the error from the most recent submission, or nil.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitErr
}

// OpenLogin shows the login modal, closing the signup modal if it was
// open. The typed form values survive the switch.
func (g *Gate) OpenLogin() {
	g.mu.Lock()
	g.state = GateLoginOpen
	g.submitErr = nil
	g.mu.Unlock()
}

// OpenSignup shows the signup modal, closing the login modal if it was
// open.
func (g *Gate) OpenSignup() {
	g.mu.Lock()
	g.state = GateSignupOpen
	g.submitErr = nil
	g.mu.Unlock()
}

// CloseLogin dismisses the login modal. It is a no-op when the signup
// modal is showing, so a resolver notification cannot close a modal the
// user just switched to.
func (g *Gate) CloseLogin() {
	g.mu.Lock()
	if g.state == GateLoginOpen {
		g.state = GateClosed
	}
	g.mu.Unlock()
}

// Close dismisses whichever modal is open. Form values are kept until a
// successful submit.
func (g *Gate) Close() {
	g.mu.Lock()
	g.state = GateClosed
	g.submitErr = nil
	g.mu.Unlock()
}

// SetLoginForm records what the user has typed into the login modal.
func (g *Gate) SetLoginForm(form LoginForm) {
	g.mu.Lock()
	g.login = form
	g.mu.Unlock()
}

// LoginForm returns the current login field values.
func (g *Gate) LoginForm() LoginForm {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.login
}

// SetSignupForm records what the user has typed into the signup modal.
func (g *Gate) SetSignupForm(form SignupForm) {
	g.mu.Lock()
	g.signup = form
	g.mu.Unlock()
}

// SignupForm returns the current signup field values.
func (g *Gate) SignupForm() SignupForm {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signup
}

// SubmitLogin validates and submits the login form. On failure the modal
// stays open with the form intact and the error is returned (and kept
// for Err). On success the session is refreshed and the gate resets.
func (g *Gate) SubmitLogin(ctx context.Context) error {
	g.mu.Lock()
	form := g.login
	g.mu.Unlock()

	if err := validateLogin(form); err != nil {
		g.setError(err)
		return err
	}
	if err := g.auth.Login(ctx, form.Email, form.Password); err != nil {
		g.setError(err)
		return err
	}
	g.finishAuth(ctx)
	return nil
}

// SubmitSignup validates and submits the signup form, then logs the new
// account in. Failure semantics match SubmitLogin.
func (g *Gate) SubmitSignup(ctx context.Context) error {
	g.mu.Lock()
	form := g.signup
	g.mu.Unlock()

	if err := validateSignup(form); err != nil {
		g.setError(err)
		return err
	}
	if _, err := g.auth.Signup(ctx, form.Name, form.Email, form.Password); err != nil {
		g.setError(err)
		return err
	}
	if err := g.auth.Login(ctx, form.Email, form.Password); err != nil {
		g.setError(err)
		return err
	}
	g.finishAuth(ctx)
	return nil
}

func (g *Gate) setError(err error) {
	g.mu.Lock()
	g.submitErr = err
	g.mu.Unlock()
}

// finishAuth runs after a successful login: refresh the session, close
// the modal, and forget the credentials.
func (g *Gate) finishAuth(ctx context.Context) {
	g.mu.Lock()
	refresher := g.refresher
	g.mu.Unlock()

	// Refresh before closing so the resolver's close notification finds
	// the modal in a consistent state either way.
	if refresher != nil {
		refresher.Resolve(ctx)
	}

	g.mu.Lock()
	g.state = GateClosed
	g.login = LoginForm{}
	g.signup = SignupForm{}
	g.submitErr = nil
	g.mu.Unlock()
}

func validateLogin(form LoginForm) error {
	if !strings.Contains(form.Email, "@") {
		return &ValidationError{Field: "email", Message: "A valid email is required"}
	}
	if form.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	return nil
}

func validateSignup(form SignupForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}
	if !strings.Contains(form.Email, "@") {
		return &ValidationError{Field: "email", Message: "A valid email is required"}
	}
	if form.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	return nil
}
