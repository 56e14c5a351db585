package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/curriculum"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/stats"
	"github.com/abhisek/skilltrail/internal/store"
)

const (
	defaultRole = "Backend"
	defaultDays = 45

	maxBodyBytes = 1 << 20
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.store.Users().Ensure(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		s.internalError(w, "ensure user", err)
		return
	}
	token, err := s.issuer.Issue(user.ID, user.Username, s.ttl)
	if err != nil {
		s.internalError(w, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	})
}

func (s *Server) handleLatestRoadmap(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Roadmaps().Latest(r.Context(), userID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No roadmap found")
		return
	}
	if err != nil {
		s.internalError(w, "latest roadmap", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleListRoadmaps(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Roadmaps().List(r.Context(), userID(r.Context()))
	if err != nil {
		s.internalError(w, "list roadmaps", err)
		return
	}
	if list == nil {
		list = []roadmap.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Roadmaps().Get(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Roadmap not found")
		return
	}
	if err != nil {
		s.internalError(w, "get roadmap", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Roadmaps().ToggleBookmark(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Roadmap not found")
		return
	}
	if err != nil {
		s.internalError(w, "toggle bookmark", err)
		return
	}
	writeJSON(w, http.StatusOK, api.BookmarkResponse{Status: "success", IsBookmarked: v})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if !s.decodeWith(w, r, &req, func() {
		if strings.TrimSpace(req.TargetRole) == "" {
			req.TargetRole = defaultRole
		}
		if req.DaysRemaining == 0 {
			req.DaysRemaining = defaultDays
		}
	}) {
		return
	}
	ctx := r.Context()
	uid := userID(ctx)
	role := strings.TrimSpace(req.TargetRole)

	if !req.ForceRegenerate {
		if doc, ok := s.cachedForRole(r, uid, role); ok {
			writeJSON(w, http.StatusOK, doc)
			return
		}
	}

	start := time.Now()
	res, err := s.gen.Generate(ctx, curriculum.Request{
		Role:       role,
		Days:       req.DaysRemaining,
		WeakTopics: req.WeakPatterns,
		APIKey:     strings.TrimSpace(r.Header.Get(api.GenerationKeyHeader)),
	})
	if err != nil {
		if ctx.Err() != nil {
			s.log.Debug("generation abandoned by client", "role", role)
			return
		}
		s.internalError(w, "generate roadmap", err)
		return
	}
	RecordGeneration(res.Source, time.Since(start))

	stored, err := s.store.Roadmaps().Upsert(ctx, uid, role, req.DaysRemaining, res.Document)
	if err != nil {
		s.internalError(w, "store roadmap", err)
		return
	}
	s.log.Info("roadmap generated",
		"user_id", uid, "role", role, "source", string(res.Source), "roadmap_id", stored.ID,
		"skills", stored.SkillCount())
	writeJSON(w, http.StatusOK, stored)
}

// cachedForRole returns the stored roadmap for role, if any.
func (s *Server) cachedForRole(r *http.Request, uid, role string) (*roadmap.Document, bool) {
	list, err := s.store.Roadmaps().List(r.Context(), uid)
	if err != nil {
		s.log.Warn("roadmap cache lookup failed", "error", err)
		return nil, false
	}
	for _, sum := range list {
		if sum.Role != role {
			continue
		}
		doc, err := s.store.Roadmaps().Get(r.Context(), uid, sum.ID)
		if err != nil {
			return nil, false
		}
		return doc, true
	}
	return nil, false
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Roadmaps().DeleteUnbookmarked(r.Context(), userID(r.Context()))
	if err != nil {
		s.internalError(w, "cleanup roadmaps", err)
		return
	}
	s.log.Info("non-bookmarked roadmaps deleted", "user_id", userID(r.Context()), "count", n)
	writeJSON(w, http.StatusOK, api.CleanupResponse{DeletedCount: n})
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req api.ProgressRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.SolvedIDs == nil {
		req.SolvedIDs = []string{}
	}
	if _, err := s.store.Progress().Replace(r.Context(), userID(r.Context()), req.SolvedIDs); err != nil {
		s.internalError(w, "save progress", err)
		return
	}
	RecordProgressSave()
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: "success"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Progress().Get(r.Context(), userID(r.Context()))
	if err != nil {
		s.internalError(w, "get progress", err)
		return
	}
	solved := p.SolvedIDs
	if solved == nil {
		solved = []string{}
	}
	writeJSON(w, http.StatusOK, stats.Stats{
		ProblemsSolved: len(solved),
		StreakDays:     store.StreakDays(p.StreakDates, s.now()),
		SolvedProblems: solved,
	})
}

// decode reads a JSON body into v and validates it. On failure it writes
// the response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	return s.decodeWith(w, r, v, nil)
}

// decodeWith runs defaults between decoding and validation.
func (s *Server) decodeWith(w http.ResponseWriter, r *http.Request, v any, defaults func()) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if defaults != nil {
		defaults()
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationDetail(err))
		return false
	}
	return true
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, op+" failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, api.ErrorResponse{Detail: detail})
}
