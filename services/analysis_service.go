package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dfirlab/logsorter/models"
)

// AnalysisService sends a chronologically sorted timeline to an external
// model and returns its analysis as an opaque text blob. This is the only
// operation that crosses a trust and latency boundary.
type AnalysisService interface {
	Analyze(ctx context.Context, inv *models.Investigation) (string, error)
}

// ollamaAnalysisService implements AnalysisService against an Ollama server
type ollamaAnalysisService struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(baseURL, model string) AnalysisService {
	return &ollamaAnalysisService{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

// Analyze formats the timeline, wraps it in the investigation prompt and
// calls the model's chat endpoint.
func (s *ollamaAnalysisService) Analyze(ctx context.Context, inv *models.Investigation) (string, error) {
	if len(inv.Entries) == 0 {
		return "", fmt.Errorf("no log entries to analyze")
	}

	body, err := sonic.Marshal(chatRequest{
		Model:    s.model,
		Messages: []chatMessage{{Role: "user", Content: buildPrompt(inv)}},
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", fmt.Errorf("failed to read analysis response: %w", err)
	}

	var parsed chatResponse
	if err := sonic.Unmarshal(buf.Bytes(), &parsed); err != nil {
		return "", fmt.Errorf("failed to decode analysis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("analysis failed: %s", parsed.Error)
		}
		return "", fmt.Errorf("analysis failed: unexpected status %d", resp.StatusCode)
	}

	return parsed.Message.Content, nil
}

// buildPrompt embeds the timeline, sorted chronologically, in the incident
// investigation request.
func buildPrompt(inv *models.Investigation) string {
	sorted := make([]models.LogEntry, len(inv.Entries))
	copy(sorted, inv.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ParsedTime.Before(sorted[j].ParsedTime)
	})

	lines := make([]string, 0, len(sorted))
	for i := range sorted {
		lines = append(lines, fmt.Sprintf("[%s] [%s] %s",
			sorted[i].Timestamp, sorted[i].Severity, sorted[i].Description))
	}

	return fmt.Sprintf(analysisPromptTemplate, strings.Join(lines, "\n"))
}

const analysisPromptTemplate = `Incident Investigation Request

I am currently investigating a cyberattack on my company. Below is a series of suspicious log entries I've extracted from our environment. I need your help to analyze this potential breach comprehensively.

Please perform a thorough investigation of the logs and provide insight into the following:

What You Should Analyze and Report:
1. Attack Timeline & Description

    1-1. Construct a detailed timeline of the incident based on the log timestamps

    1-2. Clearly describe the attacker's goals and tactics (Initial Access, Execution, Lateral Movement, etc.)

2. Compromised Elements

    2-1. List all compromised user accounts

    2-2. Identify affected hosts, services, and sensitive data assets

3. IOCs (Indicators of Compromise)
Extract any relevant:

    3-1. Malicious IPs

    3-2. File hashes / names

    3-3. Domains (e.g. C2 servers)

    3-4. Suspicious processes or commands

    3-5. Ports used (e.g., 8080, 9001, SSH)

4. Containment & Remediation Recommendations

    4-1. Give prioritized steps to contain the incident (e.g., isolate hosts, disable accounts)

    4-2. Suggest remediation actions (malware removal, password rotation, patching, etc.)

    4-3. Include command-line examples for Linux/Windows systems if applicable

    5. Immediate Actions for SOC/IR Team

    5-1. As an investigator, what actions should I take right now?

    5-2. Include advice on:

    5-2-1. Evidence preservation

    5-2-2. Log collection

    5-2-3. Internal and external communication

    5-2-4. Next phase of forensic investigation

6. (Optional) Executive Summary

    6-1. If possible, provide a short summary suitable for non-technical management

    6-2. Focus on impact, business risk, and high-level next steps

These are the logs:

%s

Please prioritize accuracy, clarity, and real-world best practices. If something is unclear from the logs, feel free to note assumptions or ask for more data.`
