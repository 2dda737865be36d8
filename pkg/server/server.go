package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/unialias/internal/logger"
	"github.com/bastiangx/unialias/internal/utils"
	"github.com/bastiangx/unialias/pkg/config"
	"github.com/bastiangx/unialias/pkg/dataset"
	"github.com/bastiangx/unialias/pkg/suggest"
	"github.com/bastiangx/unialias/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for alias completions
type Server struct {
	index      suggest.ICompleter
	config     *config.Config
	datasetDir string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
	log        *log.Logger
	requests   int
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(index suggest.ICompleter, cfg *config.Config, datasetDir string) *Server {
	return NewServerIO(index, cfg, datasetDir, os.Stdin, os.Stdout)
}

// NewServerIO creates a completion server over any reader and writer
func NewServerIO(index suggest.ICompleter, cfg *config.Config, datasetDir string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		index:      index,
		config:     cfg,
		datasetDir: datasetDir,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		log:        logger.New("server"),
	}
}

// Start sends the ready message and serves requests until EOF or until ctx
// is cancelled between two requests.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.")

	if err := s.encoder.Encode(StatusResponse{Status: "ready"}); err != nil {
		return fmt.Errorf("failed to send ready message: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.log.Errorf("Reading from stdin: %v", err)
			return err
		}
		s.requests++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(ctx, req)
	}
}

// Requests returns how many messages were read so far.
func (s *Server) Requests() int {
	return s.requests
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	switch req.Action {
	case "", ActionComplete:
		s.handleComplete(req)
	case ActionSelect:
		s.handleAlias(req, s.index.Select)
	case ActionLookup:
		s.handleAlias(req, s.index.Lookup)
	case ActionReload:
		s.handleReload(ctx, req)
	case ActionRender:
		var sb strings.Builder
		if err := s.index.Render(&sb); err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		s.sendResponse(RenderResponse{ID: req.ID, Status: "ok", Tree: sb.String()})
	case ActionStats:
		stats := s.index.Stats()
		stats["requests"] = s.requests
		s.sendResponse(StatsResponse{ID: req.ID, Status: "ok", Stats: stats})
	case ActionSettings:
		s.sendResponse(SettingsResponse{
			ID:           req.ID,
			Status:       "ok",
			Hotkey:       s.config.Shell.Hotkey,
			Sink:         s.config.Output.Sink,
			DatasetDir:   s.datasetDir,
			MaxLimit:     s.config.Server.MaxLimit,
			DefaultLimit: s.config.Server.DefaultLimit,
		})
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) {
	if len(req.Prefix) > s.config.Server.MaxInput {
		s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.config.Server.MaxInput), 400)
		s.log.Debug("Prefix is too long in request")
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.config.Server.DefaultLimit
	}
	if limit > s.config.Server.MaxLimit {
		s.log.Debugf("Clamping limit %d to %d", limit, s.config.Server.MaxLimit)
		limit = s.config.Server.MaxLimit
	}

	start := time.Now()
	suggestions := s.index.Complete(req.Prefix, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{
			Alias:   sg.Alias,
			Matched: sg.Matched,
			Char:    string(sg.Char),
			Rank:    ranks[i],
		}
	}

	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAlias(req Request, fn func(string) (rune, error)) {
	r, err := fn(req.Alias)
	if err != nil {
		if errors.Is(err, trie.ErrInternalConsistency) {
			s.log.Errorf("Alias %q: %v", req.Alias, err)
		}
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}
	s.sendResponse(AliasResponse{ID: req.ID, Status: "ok", Alias: req.Alias, Char: string(r)})
}

func (s *Server) handleReload(ctx context.Context, req Request) {
	start := time.Now()
	report, err := s.index.Reload(ctx)
	if err != nil {
		s.log.Errorf("Reload failed: %v", err)
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}
	s.sendResponse(ReloadResponse{
		ID:         req.ID,
		Status:     "ok",
		Aliases:    report.Aliases,
		Datasets:   len(report.Files),
		Duplicates: report.Duplicates,
		TimeTaken:  time.Since(start).Microseconds(),
	})
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, trie.ErrInvalidAlias), errors.Is(err, dataset.ErrMalformedRecord), errors.Is(err, suggest.ErrNoDataset):
		return 400
	case errors.Is(err, trie.ErrNotFound):
		return 404
	case errors.Is(err, trie.ErrDuplicateAlias):
		return 409
	default:
		return 500
	}
}

// sendResponse encodes one reply onto the output stream
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
