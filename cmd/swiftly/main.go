package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MKhiriev/go-swiftly/internal/cli"
	"github.com/MKhiriev/go-swiftly/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := cli.New(cli.Options{
		Environ:   environ(),
		BuildInfo: models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
	})
	code := app.Run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

// environ returns the process environment as a map.
func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}
	return env
}
