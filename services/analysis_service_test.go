package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfirlab/logsorter/models"
)

func analysisTestInvestigation() *models.Investigation {
	inv := models.NewInvestigation("Breach 2025-001")
	inv.Entries = []models.LogEntry{
		{
			Timestamp:   "2025-01-15 11:00:00",
			Description: "Privilege escalation on web01",
			Severity:    models.SeverityHigh,
			ParsedTime:  time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC),
		},
		{
			Timestamp:   "2025-01-15 10:00:00",
			Description: "Suspicious login from 203.0.113.7",
			Severity:    models.SeverityCritical,
			ParsedTime:  time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
	return inv
}

func TestAnalyze(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		resp, _ := sonic.Marshal(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "Attacker pivoted from web01."},
		})
		w.Write(resp)
	}))
	defer server.Close()

	service := NewAnalysisService(server.URL, "qwen2.5:7b")
	analysis, err := service.Analyze(context.Background(), analysisTestInvestigation())

	require.NoError(t, err)
	assert.Equal(t, "Attacker pivoted from web01.", analysis)

	assert.Equal(t, "qwen2.5:7b", captured.Model)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 1)

	// The prompt carries the timeline sorted chronologically, regardless of
	// the stored order
	prompt := captured.Messages[0].Content
	first := strings.Index(prompt, "Suspicious login from 203.0.113.7")
	second := strings.Index(prompt, "Privilege escalation on web01")
	assert.Greater(t, first, -1)
	assert.Greater(t, second, first)
}

func TestAnalyze_EmptyInvestigation(t *testing.T) {
	service := NewAnalysisService("http://localhost:1", "qwen2.5:7b")

	_, err := service.Analyze(context.Background(), models.NewInvestigation("Empty Case"))
	assert.Error(t, err)
}

func TestAnalyze_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		resp, _ := sonic.Marshal(chatResponse{Error: "model not found"})
		w.Write(resp)
	}))
	defer server.Close()

	service := NewAnalysisService(server.URL, "missing-model")
	_, err := service.Analyze(context.Background(), analysisTestInvestigation())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestAnalyze_Unreachable(t *testing.T) {
	service := NewAnalysisService("http://127.0.0.1:1", "qwen2.5:7b")

	_, err := service.Analyze(context.Background(), analysisTestInvestigation())
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(analysisTestInvestigation())

	assert.Contains(t, prompt, "Incident Investigation Request")
	assert.Contains(t, prompt, "[2025-01-15 10:00:00] [Critical] Suspicious login from 203.0.113.7")
	assert.Contains(t, prompt, "[2025-01-15 11:00:00] [High] Privilege escalation on web01")
}
