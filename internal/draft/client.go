// Package draft talks to the LLM-backed drafting collaborator over an
// OpenAI-compatible chat-completions API. The core never interprets the
// counterparty text itself; it sends the paste plus classification tags and
// gets back a structured offer and, when asked, a drafted counter message.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Tones the desk can pick for a drafted counter.
const (
	ToneBalanced = "Balanced"
	ToneFirmer   = "Firmer"
	ToneSofter   = "Softer"
)

// Acceptance modes controlling the baseline line in drafted counters.
const (
	AcceptAllElse = "Accept all else"
	OthersSubject = "Others subject"
	NoStatement   = "No statement"
)

// DealContext carries the deal classification tags into the prompts.
type DealContext struct {
	Route     string `json:"route"`
	Cargo     string `json:"cargo"`
	Size      string `json:"size"`
	LoadBasis string `json:"loadBasis"`
	Tone      string `json:"tone"`
}

// RecommendedCounter is one suggested push-back from the collaborator.
type RecommendedCounter struct {
	Field     string `json:"field"`
	Why       string `json:"why"`
	Suggested string `json:"suggested"`
}

// AnalyzeResult is the structured reading of the counterparty's latest text.
// Offer keys are the collaborator's; canonicalization happens in the caller.
type AnalyzeResult struct {
	Offer       map[string]string    `json:"offer"`
	Recommended []RecommendedCounter `json:"recommendedCounters"`
}

// DraftRequest asks for a counter message on top of an analysis.
type DraftRequest struct {
	RawText        string
	Channel        string // Email or WhatsApp
	Length         string // Standard or Short
	AcceptanceMode string
	CounterOn      map[string]string
	Context        DealContext
}

// DraftResult is the drafted message.
type DraftResult struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// New creates a drafting client. model defaults to gpt-4.1-mini when empty.
func New(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

const extractPrompt = `You are a senior palm/oils chartering manager assisting a CHARTERER.
Task: Extract Owners' CURRENT offer terms from the pasted text and propose recommended counter points.

Return STRICT JSON only, no markdown, no commentary.

JSON schema:
{
  "offer": {
    "laycan": string | "",
    "cargo_qty": string | "",
    "load_ports": string | "",
    "discharge_ports": string | "",
    "freight": string | "",
    "addl_2nd_load_disch": string | "",
    "laytime": string | "",
    "demurrage": string | "",
    "payment": string | "",
    "heating": string | "",
    "subjects_validity": string | "",
    "other_terms": string | ""
  },
  "recommendedCounters": [
    { "field": "freight"|"demurrage"|"laycan"|"heating"|"payment"|"other", "why": string, "suggested": string }
  ]
}

Rules:
- If a term is not present, use "".
- recommendedCounters should be practical for a charterer and written professionally.
- Keep suggested values realistic (do not invent numbers if none implied; provide phrasing if uncertain).`

// Analyze extracts the owners' current offer from pasted text.
func (c *Client) Analyze(ctx context.Context, rawText string, _ DealContext) (AnalyzeResult, error) {
	content, err := c.complete(ctx, 0.2, extractPrompt, rawText)
	if err != nil {
		return AnalyzeResult{}, err
	}
	var result AnalyzeResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return AnalyzeResult{}, fmt.Errorf("parse analysis: %w", err)
	}
	if result.Offer == nil {
		result.Offer = map[string]string{}
	}
	return result, nil
}

// Draft produces the counter message for the manager-selected items.
func (c *Client) Draft(ctx context.Context, req DraftRequest) (DraftResult, error) {
	tone := req.Context.Tone
	if tone == "" {
		tone = ToneBalanced
	}

	var selected []string
	for k, v := range req.CounterOn {
		if strings.TrimSpace(v) != "" {
			selected = append(selected, strings.ToUpper(k)+": "+v)
		}
	}
	selectionSummary := strings.Join(selected, "\n")
	if selectionSummary == "" {
		selectionSummary = "No specific counter points provided by Charterers. Draft a holding reply requesting Owners to confirm / clarify missing items."
	}

	acceptanceLine := ""
	switch req.AcceptanceMode {
	case AcceptAllElse:
		acceptanceLine = "All other terms as per Owners' last remain accepted."
	case OthersSubject:
		acceptanceLine = "All other terms remain subject and under review."
	}

	system := fmt.Sprintf(`You are drafting for a CHARTERER (Chartering Manager) in a professional fixture email style.
Tone is %q but always courteous and commercial.

Channel rules:
- If channel=Email: include Subject and Body, email style, "Best Regards,".
- If channel=WhatsApp: no Subject, very short lines, no sign-off.

Length rules:
- Standard: 6-12 lines.
- Short: 3-7 lines.

Critical rules:
- Explicitly state what Charterers are countering (from the manager instructions).
- Include an "acceptance baseline" line unless acceptanceMode="No statement":
  %q
- If Owners validity/time pressure is present, include "valid until [time] SGT" wording (do not invent exact time; say "valid 30 mins" if stated).
- Do not write like casual chat. No emojis. No slang.

Return STRICT JSON only:
{
  "subject": string,
  "body": string
}
If channel=WhatsApp, subject can be "".`, tone, acceptanceLine)

	user := fmt.Sprintf("Channel: %s\nLength: %s\n\nMANAGER COUNTER INSTRUCTIONS:\n%s\n\nCONTEXT TAGS: route=%s cargo=%s size=%s basis=%s\n\nRAW TEXT:\n%s",
		req.Channel, req.Length, selectionSummary,
		req.Context.Route, req.Context.Cargo, req.Context.Size, req.Context.LoadBasis,
		req.RawText)

	temperature := 0.3
	switch tone {
	case ToneFirmer:
		temperature = 0.2
	case ToneSofter:
		temperature = 0.4
	}

	content, err := c.complete(ctx, temperature, system, user)
	if err != nil {
		return DraftResult{}, err
	}
	var result DraftResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return DraftResult{}, fmt.Errorf("parse draft: %w", err)
	}
	result.Subject = strings.TrimSpace(result.Subject)
	result.Body = strings.TrimSpace(result.Body)
	return result, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat format        `json:"response_format"`
	Messages       []chatMessage `json:"messages"`
}

type format struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, temperature float64, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Temperature:    temperature,
		ResponseFormat: format{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call drafting service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read drafting response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse drafting response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("drafting service: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("drafting service: status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("drafting service: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}
