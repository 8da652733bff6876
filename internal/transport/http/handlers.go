package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/dealsense"
	"github.com/sandevgo/gtmsuite/internal/service/knowledge"
	"github.com/sandevgo/gtmsuite/internal/service/outreach"
)

const defaultVersions = 3

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": core.SuiteName + " API",
		"status":  "running",
		"version": core.SuiteVersion,
		"tools":   []string{"AskGTM", "DealSense", "OutreachAI"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.models.Models(r.Context())
	if err != nil {
		writeError(w, r, core.GenerationError("list models", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"provider": s.cfg.Provider,
		"current":  s.cfg.Model,
		"models":   models,
	})
}

// AskGTM

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.ask.Ask(r.Context(), sessionFrom(r, req.SessionID), req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	// The body is optional here
	if err := s.decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, err)
		return
	}

	sid := sessionFrom(r, req.SessionID)
	if err := s.ask.Reset(r.Context(), sid); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation reset for session " + sid})
}

type documentRequest struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := s.ask.Ingest(r.Context(), []core.Document{{Text: req.Text, Metadata: knowledge.StringMetadata(req.Metadata)}})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Document added successfully", "chunks": n})
}

func (s *Server) handleUploadDocs(w http.ResponseWriter, r *http.Request) {
	file, _, err := s.formFile(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	docs, err := knowledge.DecodeDocuments(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := s.ask.Ingest(r.Context(), docs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Uploaded " + strconv.Itoa(len(docs)) + " documents",
		"chunks":  n,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ask.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DealSense

func (s *Server) handleAnalyzeDeal(w http.ResponseWriter, r *http.Request) {
	var rec core.DealRecord
	if err := s.decodeJSON(w, r, &rec); err != nil {
		writeError(w, r, err)
		return
	}

	score, err := s.deals.Score(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleAnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, r, core.InvalidInput("analyze csv", "file must be a CSV"))
		return
	}

	rows, err := dealsense.ParseCSV(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scores := dealsense.Scores(s.deals.ScoreRows(r.Context(), rows))
	if err := r.Context().Err(); err != nil {
		writeError(w, r, err)
		return
	}

	if highRiskOnly, _ := strconv.ParseBool(r.URL.Query().Get("high_risk_only")); highRiskOnly {
		scores = dealsense.HighRisk(scores)
	}
	writeJSON(w, http.StatusOK, scores)
}

// OutreachAI

type outreachRequest struct {
	core.Profile
	Channel       core.Channel `json:"channel"`
	VersionsCount *int         `json:"versions_count,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req outreachRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.outreach.Generate(r.Context(), req.Profile, req.Channel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGenerateMultiple(w http.ResponseWriter, r *http.Request) {
	var req outreachRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	count := defaultVersions
	if req.VersionsCount != nil {
		count = *req.VersionsCount
	}

	res, err := s.outreach.GenerateVariants(r.Context(), req.Profile, req.Channel, count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGenerateReviewed(w http.ResponseWriter, r *http.Request) {
	var req outreachRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.outreach.GenerateReviewed(r.Context(), req.Profile, req.Channel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"channels": outreach.Channels()})
}
