package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	jsonMiddleware := standardMiddleware.Append(makeResponseJSON)
	operatorMiddleware := standardMiddleware.Append(app.requireOperator)
	operatorJSONMiddleware := jsonMiddleware.Append(app.requireOperator)

	mux := pat.New()

	mux.Get("/health", jsonMiddleware.ThenFunc(app.healthHandler.Health))

	// Operator session
	mux.Get("/login", standardMiddleware.ThenFunc(app.authHandler.LoginPage))
	mux.Post("/login", standardMiddleware.ThenFunc(app.authHandler.Login))
	mux.Post("/logout", standardMiddleware.ThenFunc(app.authHandler.Logout))
	mux.Post("/api/login", jsonMiddleware.ThenFunc(app.authHandler.LoginJSON))

	// Console
	mux.Post("/actions/:action", operatorMiddleware.ThenFunc(app.consoleHandler.RunAction))
	mux.Post("/api/actions/:action", operatorJSONMiddleware.ThenFunc(app.consoleHandler.RunActionJSON))
	mux.Get("/ws", operatorMiddleware.ThenFunc(app.hub.ServeWS))
	mux.Get("/", operatorMiddleware.ThenFunc(app.consoleHandler.Index))

	return mux
}
