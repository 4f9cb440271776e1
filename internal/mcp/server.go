package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"noisegraph/internal/session"
	"noisegraph/internal/store"
)

type Server struct {
	session *session.Session
	db      store.Store
	logger  *zap.Logger
	mcp     *sdk.Server
}

// NewServer exposes a session over MCP. db may be nil; when set, every
// reduction and remediation is recorded as a run.
func NewServer(sess *session.Session, db store.Store, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		session: sess,
		db:      db,
		logger:  logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "noisegraph",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}

func (s *Server) record(ctx context.Context, trigger string) string {
	if s.db == nil {
		return ""
	}
	id, err := s.db.SaveRun(ctx, s.session.Snapshot(trigger))
	if err != nil {
		s.logger.Warn("recording run failed", zap.String("trigger", trigger), zap.Error(err))
		return ""
	}
	s.logger.Debug("run recorded", zap.String("run_id", id), zap.String("trigger", trigger))
	return id
}
