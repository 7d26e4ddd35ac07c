package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
)

var _ model.Server = (*Receiver)(nil)

var donePage = template.Must(template.New("done").Parse(`<!doctype html>
<html><head><title>Classroom</title></head>
<body><p>{{.}}</p><p>You can close this window and return to the terminal.</p></body></html>
`))

// Receiver is the loopback endpoint identity providers redirect back to.
// It hands the first callback URL it sees to Wait.
type Receiver struct {
	server  *http.Server
	addr    string
	path    string
	results chan *url.URL
	logger  *logger.Logger
}

// NewReceiver creates a receiver listening on addr for callbacks on path.
func NewReceiver(addr, path string, logger *logger.Logger) *Receiver {
	r := &Receiver{
		addr:    addr,
		path:    path,
		results: make(chan *url.URL, 1),
		logger:  logger,
	}
	mux := http.NewServeMux()
	mux.Handle(path, r)
	r.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return r
}

// ServeHTTP records the callback URL and answers with a short page.
func (r *Receiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	callback := &url.URL{
		Scheme:   "http",
		Host:     req.Host,
		Path:     req.URL.Path,
		RawQuery: req.URL.RawQuery,
	}

	select {
	case r.results <- callback:
		r.logger.Info("OAuth receiver: callback received",
			"has_code", callback.Query().Has("code"),
			"has_error", callback.Query().Has("error"))
	default:
		r.logger.Warn("OAuth receiver: duplicate callback ignored")
	}

	message := "Sign-in received."
	if callback.Query().Has("error") {
		message = "Sign-in was cancelled."
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = donePage.Execute(w, message)
}

// Wait blocks until a callback arrives or ctx ends.
func (r *Receiver) Wait(ctx context.Context) (*url.URL, error) {
	select {
	case u := <-r.results:
		return u, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for oauth callback: %w", ctx.Err())
	}
}

// Start serves until Stop is called.
func (r *Receiver) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", r.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := r.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Receiver) Stop(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Receiver) Address() string {
	return r.addr
}
