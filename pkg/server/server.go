package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordfix/internal/logger"
	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/backup"
	"github.com/bastiangx/wordfix/pkg/config"
	"github.com/bastiangx/wordfix/pkg/personal"
	"github.com/bastiangx/wordfix/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for corrections and custom word management.
type Server struct {
	engine  suggest.ICorrector
	manager *personal.Manager
	codec   *backup.Codec
	log     *log.Logger

	mu       sync.RWMutex
	maxLimit int
	maxToken int
	requests int
}

// NewServer creates a server. Limits come from the [server] config section.
func NewServer(engine suggest.ICorrector, manager *personal.Manager, codec *backup.Codec, cfg config.ServerConfig) *Server {
	s := &Server{
		engine:  engine,
		manager: manager,
		codec:   codec,
		log:     logger.New("server"),
	}
	s.setLimits(cfg)
	return s
}

func (s *Server) setLimits(cfg config.ServerConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLimit = cfg.MaxLimit
	s.maxToken = cfg.MaxToken
}

func (s *Server) limits() (maxLimit, maxToken int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLimit, s.maxToken
}

// ApplyConfig hot-applies a reloaded config: request limits and the
// active languages. It is meant as a config.Watcher callback.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.setLimits(cfg.Server)
	if len(cfg.Dict.ActiveLanguages) > 0 {
		store := s.manager.Store()
		store.SetActiveLanguages(cfg.Dict.ActiveLanguages...)
		store.RebuildPrefixIndex()
	}
	s.log.Debugf("Applied config: max_limit=%d max_token=%d active=%v",
		cfg.Server.MaxLimit, cfg.Server.MaxToken, cfg.Dict.ActiveLanguages)
}

// Serve reads requests from r until EOF or ctx is done and writes one
// response per request to w. A malformed msgpack stream ends the loop.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	dec := msgpack.NewDecoder(r)
	enc := msgpack.NewEncoder(w)

	s.log.Debug("Starting server")
	if err := enc.Encode(Response{Status: StatusReady}); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return fmt.Errorf("decode request: %w", err)
		}

		resp := s.Handle(ctx, req)
		if err := enc.Encode(resp); err != nil {
			s.log.Errorf("Encoding response: %v", err)
			return fmt.Errorf("encode response: %w", err)
		}
	}
}

// Handle answers a single request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	start := time.Now()
	action := req.Action
	if action == "" && req.Token != "" {
		action = ActionSuggest
	}

	var resp Response
	switch action {
	case ActionSuggest:
		resp = s.handleSuggest(req)
	case ActionIgnore:
		resp = s.handleIgnore(req)
	case ActionAdd:
		resp = s.handleAdd(ctx, req)
	case ActionRemove:
		resp = s.handleRemove(ctx, req)
	case ActionList:
		resp = s.handleList(req)
	case ActionClear:
		resp = s.handleClear(ctx, req)
	case ActionExport:
		resp = s.handleExport(ctx, req)
	case ActionImport:
		resp = s.handleImport(ctx, req)
	case ActionHealth:
		resp = s.handleHealth()
	default:
		resp = failure(fmt.Sprintf("unknown action: %q", req.Action), 400)
	}
	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func ok() Response {
	return Response{Status: StatusOK}
}

func failure(msg string, code int) Response {
	return Response{Status: StatusError, Error: msg, Code: code}
}

// errorResponse maps a package error to a response code.
func errorResponse(err error) Response {
	var versionErr *backup.IncompatibleVersionError
	switch {
	case errors.Is(err, personal.ErrAlreadyExists):
		return failure(err.Error(), 409)
	case errors.As(err, &versionErr):
		return failure(err.Error(), 409)
	case errors.Is(err, personal.ErrInvalidFormat),
		errors.Is(err, personal.ErrInvalidLanguage):
		return failure(err.Error(), 400)
	case errors.Is(err, backup.ErrNoWordsToExport):
		return failure(err.Error(), 404)
	case errors.Is(err, backup.ErrInvalidFormat):
		return failure(err.Error(), 422)
	}
	return failure(err.Error(), 500)
}

func (s *Server) checkToken(token string) (Response, bool) {
	_, maxToken := s.limits()
	if token == "" {
		return failure("missing 't' parameter", 400), false
	}
	if utf8.RuneCountInString(token) > maxToken {
		return failure(fmt.Sprintf("token exceeds maximum length of %d characters", maxToken), 400), false
	}
	return Response{}, true
}

func (s *Server) handleSuggest(req Request) Response {
	if resp, valid := s.checkToken(req.Token); !valid {
		return resp
	}
	maxLimit, _ := s.limits()
	limit := req.Limit
	if limit <= 0 {
		limit = s.engine.DefaultLimit()
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	suggestions := s.engine.Suggest(req.Token, limit, req.Context)
	ranks := utils.RankList(len(suggestions))
	resp := ok()
	resp.Suggestions = make([]Suggestion, len(suggestions))
	for i, sg := range suggestions {
		resp.Suggestions[i] = Suggestion{
			Word:       sg.Replacement,
			Rank:       ranks[i],
			Confidence: sg.Confidence,
			Source:     string(sg.Source),
			Language:   sg.Metadata.Language,
		}
	}
	resp.Count = len(suggestions)
	resp.AutoApply = s.engine.ShouldAutoApply(suggestions)
	return resp
}

func (s *Server) handleIgnore(req Request) Response {
	if resp, valid := s.checkToken(req.Token); !valid {
		return resp
	}
	resp := ok()
	resp.Ignore = s.engine.ShouldIgnore(req.Token)
	return resp
}

// language picks the request's language, falling back to the first
// active one.
func (s *Server) language(req Request) string {
	if req.Lang != "" {
		return req.Lang
	}
	if active := s.manager.Store().ActiveLanguages(); len(active) > 0 {
		return active[0]
	}
	return "en"
}

func (s *Server) handleAdd(ctx context.Context, req Request) Response {
	if req.Word == "" {
		return failure("missing 'w' parameter", 400)
	}
	if err := s.manager.AddWord(ctx, req.Word, s.language(req)); err != nil {
		return errorResponse(err)
	}
	resp := ok()
	resp.Count = 1
	return resp
}

func (s *Server) handleRemove(ctx context.Context, req Request) Response {
	if req.Word == "" {
		return failure("missing 'w' parameter", 400)
	}
	removed, err := s.manager.RemoveWord(ctx, req.Word, s.language(req))
	if err != nil {
		return errorResponse(err)
	}
	resp := ok()
	resp.Removed = removed
	if removed {
		resp.Count = 1
	}
	return resp
}

func (s *Server) handleList(req Request) Response {
	resp := ok()
	if req.Lang != "" {
		resp.Words = s.manager.ListCustomWords(req.Lang)
		resp.Count = len(resp.Words)
		return resp
	}
	resp.ByLanguage = s.manager.ListAllCustomWordsByLanguage()
	for _, words := range resp.ByLanguage {
		resp.Count += len(words)
	}
	return resp
}

func (s *Server) handleClear(ctx context.Context, req Request) Response {
	var (
		n   int
		err error
	)
	if req.Lang != "" {
		n, err = s.manager.ClearCustomWords(ctx, req.Lang)
	} else {
		n, err = s.manager.ClearAll(ctx)
	}
	if err != nil {
		return errorResponse(err)
	}
	resp := ok()
	resp.Count = n
	return resp
}

func (s *Server) handleExport(ctx context.Context, req Request) Response {
	if req.Path == "" {
		return failure("missing 'path' parameter", 400)
	}
	manifest, err := s.codec.ExportFile(ctx, req.Path)
	if err != nil {
		return errorResponse(err)
	}
	resp := ok()
	resp.Count = manifest.TotalWords()
	for _, lb := range manifest.Languages {
		resp.Languages = append(resp.Languages, LanguageCount{Language: lb.LanguageCode, Total: lb.WordCount})
	}
	s.log.Infof("Exported %d custom words to %s", resp.Count, req.Path)
	return resp
}

func (s *Server) handleImport(ctx context.Context, req Request) Response {
	if req.Path == "" {
		return failure("missing 'path' parameter", 400)
	}
	mode, err := backup.ParseImportMode(req.Mode)
	if err != nil {
		return failure(err.Error(), 400)
	}
	summary, err := s.codec.ImportFile(ctx, req.Path, mode)
	if err != nil {
		return errorResponse(err)
	}
	resp := ok()
	resp.Count = summary.TotalWords
	resp.Added = summary.AddedWords
	resp.Skipped = summary.SkippedWords
	resp.Errors = summary.ErrorWords
	for _, ls := range summary.Languages {
		resp.Languages = append(resp.Languages, LanguageCount{
			Language: ls.Language,
			Total:    ls.Total,
			Added:    ls.Added,
			Skipped:  ls.Skipped,
			Errors:   ls.Errors,
		})
	}
	s.log.Infof("Imported %s (%s): %d added, %d skipped, %d invalid",
		req.Path, mode, resp.Added, resp.Skipped, resp.Errors)
	return resp
}

func (s *Server) handleHealth() Response {
	resp := ok()
	resp.Stats = s.engine.Stats()
	s.mu.RLock()
	resp.Stats["requests"] = s.requests
	s.mu.RUnlock()
	resp.Count = len(s.manager.Store().Languages())
	return resp
}
