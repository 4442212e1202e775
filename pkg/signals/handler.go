package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// GracefulContext returns a context cancelled on SIGINT or SIGTERM, so
// in-flight pipeline runs get a chance to release their temp resources
// before the process exits. A second signal terminates immediately.
func GracefulContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("termination signal received, shutting down")
		cancel()
		<-c
		os.Exit(1)
	}()

	return ctx
}
