package console

import (
	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/ws"
	"shopcartConsole/internal/services"
)

type moduleState struct {
	api *services.ShopcartAPI
	hub *ws.Hub
}

func ensureModule(deps *ConsoleDeps) (*moduleState, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if deps.module != nil {
		return deps.module, nil
	}

	api, err := services.NewShopcartAPI(services.ShopcartAPIConfig{
		BaseURL: deps.Config.APIBaseURL,
		APIKey:  deps.Config.APIKey,
		Client:  deps.HTTPClient,
		Logger:  deps.APILogger,
	})
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(func(state form.State) *actions.Controller {
		return actions.NewController(api, state, deps.Logger)
	}, deps.Logger, int64(deps.Config.WSReadLimit), deps.Config.AllowedOrigins)

	deps.module = &moduleState{
		api: api,
		hub: hub,
	}
	return deps.module, nil
}

// NewController builds a controller over state that shares the module's API client.
func NewController(deps *ConsoleDeps, state form.State) (*actions.Controller, error) {
	module, err := ensureModule(deps)
	if err != nil {
		return nil, err
	}
	return actions.NewController(module.api, state, deps.Logger), nil
}

// ConsoleHub returns the WebSocket session hub.
func ConsoleHub(deps *ConsoleDeps) (*ws.Hub, error) {
	module, err := ensureModule(deps)
	if err != nil {
		return nil, err
	}
	return module.hub, nil
}

// ConsoleAPI returns the shopcart service client.
func ConsoleAPI(deps *ConsoleDeps) (*services.ShopcartAPI, error) {
	module, err := ensureModule(deps)
	if err != nil {
		return nil, err
	}
	return module.api, nil
}
