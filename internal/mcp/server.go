package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"tagrun/internal/action"
	"tagrun/internal/config"
	"tagrun/internal/ledger"
)

// Server exposes tag dispatch and ledger inspection as MCP tools, so an
// agent can process a file it just wrote without shelling out.
type Server struct {
	cfg  *config.Config
	led  ledger.Ledger
	exec action.Executor
	log  zerolog.Logger
	mcp  *sdk.Server
}

func NewServer(cfg *config.Config, led ledger.Ledger, exec action.Executor, version string, log zerolog.Logger) *Server {
	s := &Server{
		cfg:  cfg,
		led:  led,
		exec: exec,
		log:  log,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "tagrun",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
