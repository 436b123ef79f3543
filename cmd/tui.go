package main

import (
	"context"

	"shopcartConsole/internal/console"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/tui"
)

func runTUI(ctx context.Context, deps *console.ConsoleDeps) error {
	ctrl, err := console.NewController(deps, form.NewFormState())
	if err != nil {
		return err
	}
	return tui.NewApp(ctrl).Run(ctx)
}
