package terminal

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/dtroode/classroom-auth/internal/model"
)

var _ model.View = (*View)(nil)

var messagePrefix = map[model.MessageKind]string{
	model.MessageError:   "[error]",
	model.MessageSuccess: "[ok]",
	model.MessageInfo:    "[info]",
}

// View renders the login form state as lines of text.
type View struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader

	selected   model.UserType
	tab        model.Tab
	loading    bool
	email      string
	rememberMe bool
	messages   []string
}

// NewView creates a view printing to out and prompting on in.
func NewView(out io.Writer, in io.Reader) *View {
	return &View{
		out: out,
		in:  bufio.NewReader(in),
		tab: model.TabLogin,
	}
}

func (v *View) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(v.out, format+"\n", args...)
}

func (v *View) MarkSelected(userType model.UserType) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.selected == userType {
		return
	}
	v.selected = userType
	v.printf("Signing in as: %s", userType)
}

func (v *View) ShowTab(tab model.Tab, userType model.UserType) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.tab = tab
	if tab == model.TabSignup {
		v.printf("Create a %s account", userType)
		return
	}
	v.printf("Log in")
}

func (v *View) SetLoading(loading bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.loading = loading
	if loading {
		v.printf("%s", label)
	}
}

func (v *View) ShowMessage(kind model.MessageKind, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.messages = append(v.messages, text)
	v.printf("%s %s", messagePrefix[kind], text)
}

func (v *View) PrefillEmail(email string, rememberMe bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.email = email
	v.rememberMe = rememberMe
	v.printf("Welcome back, %s", email)
}

// PromptEmail reads one line. An empty line or EOF counts as cancel.
func (v *View) PromptEmail() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, _ = fmt.Fprint(v.out, "Email for password reset: ")
	line, err := v.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" || (err != nil && err != io.EOF) {
		return "", false
	}
	return line, true
}

// Loading reports whether the submit control is disabled.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Prefill returns the email and remember-me state set by PrefillEmail.
func (v *View) Prefill() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.email, v.rememberMe
}

// Messages returns every message shown so far.
func (v *View) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

var _ model.Navigator = (*Navigator)(nil)

// Navigator prints navigation targets. Absolute URLs are handed to open,
// when set, so a browser can follow them.
type Navigator struct {
	mu      sync.Mutex
	out     io.Writer
	open    func(target string) error
	current string
}

// NewNavigator creates a navigator. open may be nil.
func NewNavigator(out io.Writer, open func(target string) error) *Navigator {
	return &Navigator{out: out, open: open}
}

func (n *Navigator) Navigate(target string) error {
	n.mu.Lock()
	n.current = target
	n.mu.Unlock()

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("failed to parse navigation target: %w", err)
	}

	if !u.IsAbs() {
		_, _ = fmt.Fprintf(n.out, "-> %s\n", target)
		return nil
	}

	_, _ = fmt.Fprintf(n.out, "Continue in your browser:\n  %s\n", target)
	if n.open == nil {
		return nil
	}
	if err := n.open(target); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// Current returns the last navigation target.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
