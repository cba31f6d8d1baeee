package servers

import (
	"context"

	"github.com/rs/zerolog/log"

	"office-portal/pkg/resources"
)

// baseServer holds no listener; it exists so resources that outlive the HTTP
// servers (the database pool, telemetry) are released in the same lifecycle
// pass as everything else.
type baseServer struct {
	name         string
	closeChannel chan struct{}
	closables    []resources.Closable
}

func NewBaseServer(closables ...resources.Closable) Server {
	return &baseServer{
		name:         "base-server",
		closeChannel: make(chan struct{}),
		closables:    closables,
	}
}

func (server *baseServer) Run(_ context.Context) error {
	log.Info().Str("stage", "startup").Str("component", server.name).Msg("starting up")

	<-server.closeChannel

	return nil
}

func (server *baseServer) Stop(_ context.Context) error {
	log.Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
	defer log.Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

	for _, closable := range server.closables {
		closable.Close()
	}

	close(server.closeChannel)

	return nil
}
