package console

import (
	"errors"
	"log/slog"
	"net/http"
)

// Logger provides minimal logging required by the console module.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// ConsoleDeps groups external dependencies needed by the console module.
type ConsoleDeps struct {
	Logger     Logger
	APILogger  *slog.Logger
	Config     ConsoleConfig
	HTTPClient *http.Client
	module     *moduleState
}

// Validate ensures required dependencies are provided.
func (d *ConsoleDeps) Validate() error {
	if d.Logger == nil {
		return errors.New("console deps: Logger is required")
	}
	if d.Config.APIBaseURL == "" {
		return errors.New("console deps: Config.APIBaseURL is required")
	}
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
		if d.Config.APITimeout > 0 {
			d.HTTPClient = &http.Client{Timeout: d.Config.APITimeout}
		}
	}
	return nil
}
