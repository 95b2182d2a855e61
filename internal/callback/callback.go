// Package callback runs the small local HTTP server that receives the
// browser return flow: email-confirmation and OAuth links redirect here
// with a one-time code, which is exchanged for an auth session and
// reported to the TUI.
package callback

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selahfocus/selah/internal/backend"
)

const welcomeMessage = "Email confirmed! Welcome to Selah"

// Result is delivered to the TUI after a code exchange attempt.
type Result struct {
	Type    string // "signup", "recovery", or "" for OAuth/standard
	Session *backend.AuthSession
	Err     error
}

// Server handles /auth/callback plus the landing pages it redirects to.
type Server struct {
	client  backend.Client
	results chan Result
	srv     *http.Server
}

func NewServer(client backend.Client) *Server {
	return &Server{
		client:  client,
		results: make(chan Result, 4),
	}
}

// Results delivers one Result per exchange attempt.
func (s *Server) Results() <-chan Result {
	return s.results
}

// redirectTarget implements the navigation contract: a confirmed signup
// lands on the welcome page, a recovery link on the password reset entry
// point, anything else on next (default dashboard). A failed exchange goes
// back to the sign-in page with an error marker.
func redirectTarget(typ, next string, exchangeOK bool) string {
	if !exchangeOK {
		return "/login?error=auth_failed"
	}
	switch typ {
	case "signup":
		return "/dashboard?message=" + url.QueryEscape(welcomeMessage)
	case "recovery":
		return "/reset-password"
	}
	if next == "" {
		next = "/dashboard"
	}
	return next
}

func (s *Server) handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	// No gin logger: stdout belongs to the TUI.
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/auth/callback", s.handleCallback)
	r.GET("/dashboard", func(c *gin.Context) {
		msg := c.Query("message")
		if msg == "" {
			msg = "You're signed in."
		}
		s.page(c, msg, "You can close this tab and return to the terminal.")
	})
	r.GET("/reset-password", func(c *gin.Context) {
		s.page(c, "Reset link verified", "Return to the terminal and choose a new password under Account.")
	})
	r.GET("/login", func(c *gin.Context) {
		if c.Query("error") != "" {
			s.page(c, "Sign-in link failed", "The link is invalid or has expired. Return to the terminal and request a new one.")
			return
		}
		s.page(c, "Sign in", "Sign in from the terminal under Account.")
	})

	return r
}

func (s *Server) handleCallback(c *gin.Context) {
	code := c.Query("code")
	typ := c.Query("type") // "signup", "recovery", or absent
	next := c.DefaultQuery("next", "/dashboard")

	var sess *backend.AuthSession
	var err error
	if code == "" {
		err = backend.ErrNotAuthenticated
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		sess, err = s.client.ExchangeCode(ctx, code)
	}

	select {
	case s.results <- Result{Type: typ, Session: sess, Err: err}:
	default:
		// The TUI is not draining; drop rather than wedge the browser.
	}

	c.Redirect(http.StatusFound, redirectTarget(typ, next, err == nil))
}

func (s *Server) page(c *gin.Context, title, body string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<!doctype html>
<html><head><title>Selah</title></head>
<body style="font-family: sans-serif; background: #0b1120; color: #e2e8f0; display: flex; justify-content: center; padding-top: 6rem;">
<div style="text-align: center;">
<h1 style="font-weight: 300;">`+title+`</h1>
<p style="color: #94a3b8;">`+body+`</p>
</div>
</body></html>`)
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
