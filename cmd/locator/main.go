package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/portalapi"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator/mapsurface"
)

func main() {
	var (
		apiURL   string
		timeout  time.Duration
		query    string
		region   string
		lat, lng float64
		logLevel string
	)
	flag.StringVar(&apiURL, "api", "http://localhost:8080", "Locator API base URL")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")
	flag.StringVar(&query, "query", "", "Initial search text")
	flag.StringVar(&region, "region", string(entities.AllRegions), "Initial region filter")
	flag.Float64Var(&lat, "lat", 0, "Your latitude (enables directions)")
	flag.Float64Var(&lng, "lng", 0, "Your longitude (enables directions)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level")
	flag.Parse()

	observability.InitLogger("health-connect-locator-cli", "development", logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := portalapi.NewClient(apiURL, timeout)
	out := newConsole(os.Stdout)
	defer out.Flush()

	var geo locator.Geolocator
	if lat != 0 || lng != 0 {
		position := entities.Coordinates{Lat: lat, Lng: lng}
		if !position.Valid() {
			fmt.Fprintln(os.Stderr, "invalid -lat/-lng")
			os.Exit(2)
		}
		geo = locator.GeolocatorFunc(func(context.Context) (entities.Coordinates, error) { return position, nil })
	} else {
		geo = locator.GeolocatorFunc(func(context.Context) (entities.Coordinates, error) {
			return entities.Coordinates{}, locator.ErrPermissionDenied
		})
	}

	var widget *mapsurface.Headless
	session, err := locator.NewSession(locator.Options{
		Store:      client,
		Directions: client,
		Geolocator: geo,
		Notifier:   out,
		Map:        mapsurface.NewController(client, mapsurface.NewHeadlessFactory(&widget), &log.Logger),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}
	defer session.Close()

	if err := session.Mount(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to mount session")
	}
	session.Wait()

	shell := &shell{session: session, out: out, widget: func() *mapsurface.Headless { return widget }}
	if err := shell.exec(ctx, "search "+query); err != nil {
		fmt.Fprintln(out, err)
	}
	if err := shell.exec(ctx, "region "+region); err != nil {
		fmt.Fprintln(out, err)
	}
	shell.printList()
	out.Flush()

	shell.run(ctx, os.Stdin)
}
