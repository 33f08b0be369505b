package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/calculator"
	"github.com/fitlife/nutrio/internal/mealplan"
	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/recommend"
)

func (s *Server) handleNeeds(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, calculator.ComputeNeeds(&profile))
}

func (s *Server) handleBMI(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, calculator.BMIFor(&profile))
}

type recommendRequest struct {
	Profile     models.UserProfile `json:"profile"`
	Limit       int                `json:"limit,omitempty"`
	Exclude     []string           `json:"exclude,omitempty"`
	MinProtein  float64            `json:"min_protein,omitempty"`
	MaxCalories float64            `json:"max_calories,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	needs := calculator.ComputeNeeds(&req.Profile)
	s.logger.Debug("recommend request",
		zap.String("goal", string(req.Profile.Goal)), zap.Int("limit", req.Limit))

	ranked := s.current().Engine.Recommend(needs.Target(), req.Limit, recommend.Options{
		ExcludeNames: req.Exclude,
		MinProtein:   req.MinProtein,
		MaxCalories:  req.MaxCalories,
	})
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"needs": needs,
		"foods": ranked,
	})
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	food := r.URL.Query().Get("food")
	if food == "" {
		s.respondError(w, http.StatusBadRequest, "food is required")
		return
	}
	n := 5
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	goal := models.Goal(r.URL.Query().Get("goal"))

	alternatives := s.current().Engine.FindAlternatives(food, n, goal)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"food":         food,
		"alternatives": alternatives,
	})
}

type planRequest struct {
	Profile     models.UserProfile     `json:"profile"`
	Preferences models.PlanPreferences `json:"preferences"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	needs := calculator.ComputeNeeds(&req.Profile)
	week := s.current().Planner.GenerateWeekPlan(needs, req.Preferences)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"plan":  week,
		"stats": mealplan.Stats(week),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var query models.RAGQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("rag query request", zap.String("query", query.Query), zap.Int("k", query.K))
	result, err := s.current().Pipeline.Query(r.Context(), query)
	if err != nil {
		s.logger.Error("rag query failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

type askRequest struct {
	Query     string              `json:"query"`
	ProfileID string              `json:"profile_id,omitempty"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	profile := req.Profile
	if req.ProfileID != "" {
		if s.storage == nil {
			s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
			return
		}
		stored, err := s.storage.GetProfile(r.Context(), req.ProfileID)
		if err != nil {
			s.respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		profile = &stored.Profile
	}

	var needs *models.NutritionalNeeds
	if profile != nil {
		if err := profile.Validate(); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		needs = calculator.ComputeNeeds(profile)
	}
	answer := s.current().Assistant.AnswerFor(req.Query, profile, needs)
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	var p models.StoredProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := p.Profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.storage.CreateProfile(r.Context(), &p); err != nil {
		s.logger.Error("create profile failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, &p)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	offset, limit := 0, 50
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	profiles, err := s.storage.ListProfiles(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profiles == nil {
		profiles = []*models.StoredProfile{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	p, err := s.storage.GetProfile(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "profile not found")
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	var p models.StoredProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := p.Profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = id
	if err := s.storage.UpdateProfile(r.Context(), &p); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &p)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete profile request", zap.String("id", id))
	if err := s.storage.DeleteProfile(r.Context(), id); err != nil {
		s.logger.Error("delete profile failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddProgress(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := s.storage.GetProfile(r.Context(), id); err != nil {
		s.respondError(w, http.StatusNotFound, "profile not found")
		return
	}
	var e models.ProgressEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e.WeightKg <= 0 {
		s.respondError(w, http.StatusBadRequest, "weight_kg must be positive")
		return
	}
	e.ProfileID = id
	if err := s.storage.AddProgress(r.Context(), &e); err != nil {
		s.logger.Error("add progress failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, &e)
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.respondError(w, http.StatusNotImplemented, "profile storage not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	entries, err := s.storage.ListProgress(r.Context(), id)
	if err != nil {
		s.logger.Error("list progress failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []*models.ProgressEntry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	c := s.current()
	resp := map[string]interface{}{
		"foods": c.Engine.Size(),
	}
	if s.storage != nil {
		if n, err := s.storage.CountProfiles(r.Context()); err == nil {
			resp["profiles"] = n
		}
		if n, err := s.storage.CountProgress(r.Context()); err == nil {
			resp["progress_entries"] = n
		}
	}
	resp["config"] = map[string]interface{}{
		"dataset_path":         s.config.Dataset.Path,
		"embedding_provider":   s.config.Embedding.Provider,
		"embedding_dimensions": s.config.Embedding.Dimensions,
		"retrieval_default_k":  s.config.Retrieval.DefaultK,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
