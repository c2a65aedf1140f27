package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"repogenome/internal/capability"
	rgcontext "repogenome/internal/context"
	"repogenome/internal/engine"
	"repogenome/internal/genome"
	"repogenome/internal/incremental"
	"repogenome/internal/query"
	"repogenome/internal/storage"
)

// defaultSessionID is used when a tool call or resource read omits
// session_id, so a single-agent client never has to think about
// sessions at all.
const defaultSessionID = "default"

// ToolHandler executes one named tool against the caller's session.
type ToolHandler func(sess *storage.Session, params map[string]interface{}) (interface{}, error)

// ResourceHandler serves one resource URI.
type ResourceHandler func(sess *storage.Session, uri string) (interface{}, error)

// Server is the stdio-framed JSON-RPC server exposing the engine's
// tools and resources (spec §6). Grounded on the teacher's MCPServer:
// same stdin/stdout/scanner/logger/tools/resources shape, minus the
// teacher's multi-repo engine registry and preset/pagination machinery
// (RepoGenome's 18-tool surface is small enough to list in one page, so
// tools/list needs no cursor).
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  capability.Logger
	version string

	tools     map[string]ToolHandler
	resources map[string]ResourceHandler

	eng      *engine.Engine
	db       *storage.DB
	sessions *storage.SessionStore
	contract *Contract

	sessionMemory *rgcontext.SessionMemory
	recorder      *rgcontext.Recorder
	feedback      *rgcontext.Feedback

	mu         sync.RWMutex
	genome     *genome.Genome
	query      *query.Engine
	assembler  *rgcontext.Assembler
	lastChange incremental.ChangeSet

	// Persist, if set, is called with the newly loaded Genome after every
	// successful scan/update tool call, so a long-running server keeps
	// the on-disk Genome in sync with the in-memory one it serves from.
	Persist func(*genome.Genome) error
}

// NewServer wires a Server around an already-configured Engine and an
// open storage database. The Genome starts unloaded; the first
// successful scan (or a resource read against a prior on-disk state,
// once loaded via LoadGenome) populates it.
func NewServer(version string, eng *engine.Engine, db *storage.DB, logger capability.Logger) *Server {
	sessions := storage.NewSessionStore(db)
	cache := storage.NewCache(db, 500)
	sessionMemoryStore := storage.NewSessionMemoryStore(db)
	versionStore := storage.NewContextVersionStore(db)
	feedbackStore := storage.NewFeedbackStore(db)

	s := &Server{
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		logger:        logger,
		version:       version,
		tools:         make(map[string]ToolHandler),
		resources:     make(map[string]ResourceHandler),
		eng:           eng,
		db:            db,
		sessions:      sessions,
		contract:      NewContract(sessions),
		sessionMemory: rgcontext.NewSessionMemory(sessionMemoryStore),
		recorder:      rgcontext.NewRecorder(versionStore),
		feedback:      rgcontext.NewFeedback(feedbackStore),
	}
	s.query = query.New(nil, cache, logger)

	s.registerTools()
	return s
}

// LoadGenome installs g as the current snapshot, rebuilding the query
// engine and context assembler over it. Grounded on spec §5's "atomic
// snapshot swap": readers in flight keep the prior *genome.Genome value
// they already captured under RLock, writers block until they finish.
func (s *Server) LoadGenome(g *genome.Genome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genome = g
	s.query.Genome = g
	s.assembler = rgcontext.New(g, s.sessionMemory, s.recorder, s.feedback)
}

// currentGenome returns the live snapshot under a read lock.
func (s *Server) currentGenome() *genome.Genome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.genome
}

// Start runs the read-dispatch-write loop until stdin closes.
func (s *Server) Start() error {
	s.logf("info", "MCP server starting", map[string]interface{}{"version": s.version})

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logf("info", "MCP server shutting down (EOF)", nil)
				return nil
			}
			s.logf("error", "error reading message", map[string]interface{}{"error": err.Error()})
			if msg != nil && msg.Id != nil {
				_ = s.writeError(msg.Id, ParseError, fmt.Sprintf("failed to parse message: %v", err))
			}
			continue
		}

		response := s.handleMessage(msg)
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logf("error", "error writing response", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

// SetStdin sets the input stream (for testing).
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing).
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}

func (s *Server) logf(level, message string, fields map[string]interface{}) {
	if s.logger == nil {
		return
	}
	switch level {
	case "debug":
		s.logger.Debug(message, fields)
	case "warn":
		s.logger.Warn(message, fields)
	case "error":
		s.logger.Error(message, fields)
	default:
		s.logger.Info(message, fields)
	}
}

func sessionIDOf(params map[string]interface{}) string {
	if id, ok := params["session_id"].(string); ok && id != "" {
		return id
	}
	return defaultSessionID
}

func scanContext() context.Context {
	return context.Background()
}
