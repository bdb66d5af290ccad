// Package rtserver exposes the rtsample grammars over HTTP, the way
// tunaq's server package puts its game engine behind a JSON API: a bearer
// token gates access, chi.URLParam pulls the grammar name out of the path,
// and every request gets a uuid so its log lines and any rtobserve rows can
// be correlated back to it.
package rtserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/allstarrt/internal/rtconfig"
	"github.com/dekarrin/allstarrt/internal/rtsample"
	"github.com/dekarrin/allstarrt/rtobserve"
)

// Config controls how a Server authenticates callers and drives parses.
type Config struct {
	// Secret is the HS512 signing key for issued and validated bearer
	// tokens. It must not be empty.
	Secret []byte

	// APIKey is the shared credential POST /token exchanges for a bearer
	// token. There is no per-user account system here, just one key.
	APIKey string

	// Options tunes every parse the server drives, the same Options a
	// cmd/rtdemo session would load from an rtconfig file.
	Options rtconfig.Options

	// ObserveDB, if non-empty, is a SQLite file every parse's syntax-error
	// and ambiguity events are additionally persisted to via rtobserve.
	ObserveDB string
}

// Server wraps a chi.Mux configured per Config.
type Server struct {
	cfg    Config
	router *chi.Mux
}

// New builds a Server ready to be used as an http.Handler.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}
	s.router = s.newRouter()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Post("/token", s.handleToken)

	r.Route("/grammars", func(r chi.Router) {
		r.Get("/", s.handleListGrammars)
		r.With(s.auth).Post("/{name}/parse", s.handleParse)
	})

	return r
}

func (s *Server) auth(next http.Handler) http.Handler {
	return requireBearer(s.cfg.Secret, next.ServeHTTP)
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

func (s *Server) handleToken(w http.ResponseWriter, req *http.Request) {
	var body tokenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && err != io.EOF {
		jsonBadRequest("Request body must be JSON", "decode token request: %s", err.Error()).write(w, req)
		return
	}

	if body.APIKey == "" || body.APIKey != s.cfg.APIKey {
		jsonUnauthorized("Invalid API key", "token request: bad api key").write(w, req)
		return
	}

	const ttl = 10 * time.Minute
	tok, err := issueToken(s.cfg.Secret, "rtdemo-client", ttl)
	if err != nil {
		jsonInternalServerError("sign token: %s", err.Error()).write(w, req)
		return
	}

	jsonOK(tokenResponse{Token: tok, ExpiresIn: int(ttl.Seconds())}, "issued token").write(w, req)
}

type grammarSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListGrammars(w http.ResponseWriter, req *http.Request) {
	var summaries []grammarSummary
	for _, g := range rtsample.Registry() {
		summaries = append(summaries, grammarSummary{Name: g.Name, Description: g.Description})
	}
	jsonOK(summaries, "listed %d grammars", len(summaries)).write(w, req)
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseErrorView struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type tokenView struct {
	Type   int    `json:"type"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type parseResponse struct {
	RequestID string           `json:"request_id"`
	SessionID string           `json:"session_id"`
	Grammar   string           `json:"grammar"`
	Tree      string           `json:"tree,omitempty"`
	Tokens    []tokenView      `json:"tokens"`
	Errors    []parseErrorView `json:"errors"`
}

func (s *Server) handleParse(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	g, ok := rtsample.Find(name)
	if !ok {
		jsonNotFound("unknown grammar %q", name).write(w, req)
		return
	}

	var body parseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		jsonBadRequest("Request body must be JSON with a \"text\" field", "decode parse request: %s", err.Error()).write(w, req)
		return
	}

	res, parseErr := rtsample.Run(g, body.Text, s.cfg.Options)

	if s.cfg.ObserveDB != "" {
		if sink, err := rtobserve.Open(s.cfg.ObserveDB, res.SessionID); err == nil {
			for _, e := range res.Errors {
				sink.SyntaxError(e)
			}
			_ = sink.Close()
		}
	}

	resp := parseResponse{
		RequestID: requestIDFrom(req),
		SessionID: res.SessionID,
		Grammar:   g.Name,
		Tokens:    make([]tokenView, 0, len(res.Tokens)),
		Errors:    make([]parseErrorView, 0, len(res.Errors)),
	}
	if res.Tree != nil {
		resp.Tree = res.Tree.GetText()
	}
	for _, t := range res.Tokens {
		resp.Tokens = append(resp.Tokens, tokenView{Type: t.Type(), Text: t.Text(), Line: t.Line(), Column: t.Column()})
	}
	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, parseErrorView{Line: e.Line, Column: e.Column, Message: e.Message})
	}

	msg := fmt.Sprintf("parsed %q against grammar %q", name, g.Name)
	if parseErr != nil {
		msg += ": " + parseErr.Error()
	}
	jsonOK(resp, msg).write(w, req)
}
