package server

import (
	"sync"

	"docnav/internal/bridge"
	"docnav/internal/cache"
	"docnav/internal/config"
	"docnav/internal/dispatcher"
	"docnav/internal/launcher"
	"docnav/internal/manager"
	"docnav/internal/scheduler"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const Name = "docnav"

// Commands served through workspace/executeCommand.
const (
	CommandOpen        = "docnav.open"
	CommandViewerReady = "docnav.viewerReady"
	CommandResolve     = "docnav.resolve"
	CommandClassify    = "docnav.classify"
	CommandVariants    = "docnav.variants"
)

var commands = []string{CommandOpen, CommandViewerReady, CommandResolve, CommandClassify, CommandVariants}

// MethodOpenInPanel asks the client to show a pdf or image in its viewer.
const MethodOpenInPanel = "docnav/openInPanel"

type Server struct {
	mu         sync.Mutex
	handler    *protocol.Handler
	config     config.Config
	root       string
	manager    *manager.DocumentManager
	jumps      *cache.PendingJumps
	dispatcher *dispatcher.Dispatcher
	launcher   *launcher.Launcher
	bridge     *bridge.Bridge
	scheduler  *scheduler.Scheduler
	log        commonlog.Logger
}

type Option func(*Server)

// WithLauncher replaces the process launcher for external documents.
func WithLauncher(l *launcher.Launcher) Option {
	return func(s *Server) { s.launcher = l }
}

func New(opts ...Option) *Server {
	s := &Server{
		config:   config.Default(),
		launcher: launcher.New(),
		log:      commonlog.GetLogger("docnav.server"),
	}
	s.handler = &protocol.Handler{
		Initialize:               s.initialize,
		Initialized:              s.initialized,
		Shutdown:                 s.shutdown,
		TextDocumentDidOpen:      s.textDocumentDidOpen,
		TextDocumentDidChange:    s.textDocumentDidChange,
		TextDocumentDidClose:     s.textDocumentDidClose,
		TextDocumentDocumentLink: s.textDocumentDocumentLink,
		TextDocumentDefinition:   s.textDocumentDefinition,
		WorkspaceExecuteCommand:  s.workspaceExecuteCommand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() *protocol.Handler { return s.handler }

// NewServer wires a docnav language server for stdio.
func NewServer(debug bool) *server.Server {
	return server.NewServer(New().Handler(), Name, debug)
}
