package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"shopcartConsole/internal/config"
	"shopcartConsole/internal/console"
	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/ws"
	"shopcartConsole/internal/handlers"
	"shopcartConsole/utils"
)

type application struct {
	errorLog       *log.Logger
	infoLog        *log.Logger
	consoleHandler *handlers.ConsoleHandler
	authHandler    *handlers.AuthHandler
	healthHandler  *handlers.HealthHandler
	hub            *ws.Hub
}

// logAdapter lets the feature packages log through the two application loggers.
type logAdapter struct {
	info *log.Logger
	err  *log.Logger
}

func (l logAdapter) Infof(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l logAdapter) Errorf(format string, args ...interface{}) {
	l.err.Output(2, fmt.Sprintf(format, args...))
}

func initializeApp(cfg config.Config, deps *console.ConsoleDeps, errorLog *log.Logger, infoLog *log.Logger) (*application, error) {
	pages, err := handlers.NewPages()
	if err != nil {
		return nil, err
	}

	api, err := console.ConsoleAPI(deps)
	if err != nil {
		return nil, err
	}
	hub, err := console.ConsoleHub(deps)
	if err != nil {
		return nil, err
	}

	authHandler, err := newAuthHandler(cfg, pages)
	if err != nil {
		return nil, err
	}
	if !authHandler.Enabled() {
		infoLog.Print("Operator authentication is disabled: auth.password_hash is empty")
	}

	return &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		consoleHandler: &handlers.ConsoleHandler{
			Controllers: func(state form.State) (*actions.Controller, error) {
				return console.NewController(deps, state)
			},
			Pages: pages,
		},
		authHandler:   authHandler,
		healthHandler: &handlers.HealthHandler{API: api},
		hub:           hub,
	}, nil
}

func newAuthHandler(cfg config.Config, pages *handlers.Pages) (*handlers.AuthHandler, error) {
	h := &handlers.AuthHandler{
		Operator:     cfg.Auth.Operator,
		PasswordHash: cfg.Auth.PasswordHash,
		TTL:          8 * time.Hour,
		Pages:        pages,
	}
	if cfg.Auth.TokenTTLMinutes > 0 {
		h.TTL = time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	}
	if h.PasswordHash == "" {
		return h, nil
	}
	if h.Operator == "" {
		return nil, errors.New("auth.operator is required when auth.password_hash is set")
	}
	tokens, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("auth.signing_key: %w", err)
	}
	h.Tokens = tokens
	return h, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
