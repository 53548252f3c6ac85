package server

import (
	"log"
	"path/filepath"

	"docnav/internal/bridge"
	"docnav/internal/cache"
	"docnav/internal/cache/memory"
	"docnav/internal/cache/store/sqlite"
	"docnav/internal/config"
	"docnav/internal/dispatcher"
	"docnav/internal/doctype"
	"docnav/internal/manager"
	"docnav/internal/reference"
	"docnav/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := config.Load(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	cfg = cfg.ApplyEnv()
	log.Printf("Config: %+v", cfg)

	root := ""
	if params.RootURI != nil {
		root = reference.Parse(*params.RootURI).Path
	} else if params.RootPath != nil {
		root = *params.RootPath
	}

	jumps := cache.NewPendingJumps(s.openStore(cfg, root), cache.WithTTL(cfg.TTL()))
	d := dispatcher.New(
		dispatcher.Apps{
			Word:       cfg.WordApp,
			Excel:      cfg.ExcelApp,
			PowerPoint: cfg.PowerPointApp,
			External:   cfg.ExternalApps,
		},
		dispatcher.WithBaseDir(root),
		dispatcher.WithRecorder(doctype.PDF, jumps),
	)

	var b *bridge.Bridge
	if cfg.BridgeAddr != "" {
		b = bridge.New(jumps)
		if _, err := b.Start(cfg.BridgeAddr); err != nil {
			s.log.Errorf("viewer bridge disabled: %v", err)
			b = nil
		}
	}

	sched := scheduler.New(8)
	sched.Run()
	sched.Every(jumps.TTL(), scheduler.Task{
		Name: "sweep pending jumps",
		Execute: func() error {
			n, err := jumps.Sweep()
			if n > 0 {
				s.log.Debugf("swept %d expired jumps", n)
			}
			return err
		},
	})

	s.mu.Lock()
	s.config = cfg
	s.root = root
	s.jumps = jumps
	s.dispatcher = d
	s.bridge = b
	s.scheduler = sched
	s.manager = manager.NewDocumentManager(cfg.LinkQuery)
	s.mu.Unlock()

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.DocumentLinkProvider = &protocol.DocumentLinkOptions{ResolveProvider: &protocol.False}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{Commands: commands}

	return protocol.InitializeResult{
		Capabilities: capabilities,
	}, nil
}

// openStore returns the sqlite store in the workspace state directory when
// jumps persist, the in-memory store otherwise or on failure.
func (s *Server) openStore(cfg config.Config, root string) cache.Store {
	if !cfg.PersistJumps {
		return memory.New()
	}
	path, err := cfg.JumpsDB(root)
	if err == nil {
		var store *sqlite.Store
		if store, err = sqlite.Open(sqlite.Config{Path: path}); err == nil {
			log.Printf("Persisting jumps in %s", path)
			return store
		}
	}
	s.log.Errorf("falling back to in-memory jumps: %v", err)
	return memory.New()
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Println("Client initialized.")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.bridge != nil {
		if err := s.bridge.Close(); err != nil {
			s.log.Warningf("closing bridge: %v", err)
		}
	}
	if s.manager != nil {
		if err := s.manager.CloseAll(); err != nil {
			s.log.Warningf("closing documents: %v", err)
		}
	}
	if s.jumps != nil {
		return s.jumps.Close()
	}
	return nil
}

func (s *Server) isLinkDocument(uri string) bool {
	ext := filepath.Ext(reference.Parse(uri).Path)
	for _, e := range s.config.LinkExtensions {
		if equalFoldExt(e, ext) {
			return true
		}
	}
	return false
}
