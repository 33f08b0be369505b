package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitlife/nutrio/pkg/utils"
)

// Prompt styles selected from the detected query type.
const (
	StyleNutritionExpert      = "nutrition_expert"
	StyleSimpleAssistant      = "simple_assistant"
	StyleComparisonSpecialist = "comparison_specialist"
)

var promptTemplates = map[string]string{
	StyleNutritionExpert: `You are an expert nutritionist with 10 years of experience.

NUTRITION CONTEXT:
%s

PATIENT QUESTION:
%s

INSTRUCTIONS FOR YOUR ANSWER:
1. Be precise and scientific
2. Use the data provided
3. Give practical advice
4. Mention the limits of the data
5. Structure your answer clearly

NUTRITIONIST ANSWER:`,

	StyleSimpleAssistant: `You are a nutrition assistant.

INFORMATION:
%s

QUESTION:
%s

Answer helpfully and concisely:`,

	StyleComparisonSpecialist: `You are an expert in nutritional comparison.

DATA TO COMPARE:
%s

COMPARISON REQUEST:
%s

Provide a detailed comparative analysis:`,
}

// StyleForQueryType maps a detected query type to a prompt style.
func StyleForQueryType(queryType string) string {
	switch queryType {
	case QueryTypeComparison:
		return StyleComparisonSpecialist
	case QueryTypeRecommendation, QueryTypeAnalysis:
		return StyleNutritionExpert
	default:
		return StyleSimpleAssistant
	}
}

// BuildPrompt renders the prompt for a style, context, and query. Unknown
// styles fall back to the simple assistant.
func BuildPrompt(style, contextText, query string) string {
	tmpl, ok := promptTemplates[style]
	if !ok {
		tmpl = promptTemplates[StyleSimpleAssistant]
	}
	return fmt.Sprintf(tmpl, contextText, query)
}

// Generator produces a free-text answer from a prompt. Implementations talk
// to local or hosted LLM backends; the pipeline tries them in order and falls
// back to a data-only summary when all fail.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateOptions tunes sampling for the backends.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// OllamaGenerator talks to a local Ollama server over its HTTP API.
type OllamaGenerator struct {
	baseURL string
	model   string
	opts    GenerateOptions
	client  *http.Client
}

// NewOllamaGenerator creates a generator for the given Ollama model.
func NewOllamaGenerator(baseURL, model string, opts GenerateOptions) *OllamaGenerator {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	return &OllamaGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		opts:    opts,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *OllamaGenerator) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature":    g.opts.Temperature,
			"num_predict":    g.opts.MaxTokens,
			"top_p":          0.9,
			"repeat_penalty": 1.1,
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return CleanResponse(out.Response, prompt), nil
}

// HuggingFaceGenerator calls the hosted inference API for a text-generation
// model. Requires an API token.
type HuggingFaceGenerator struct {
	baseURL string
	model   string
	token   string
	opts    GenerateOptions
	client  *http.Client
}

// NewHuggingFaceGenerator creates a generator for the given hosted model.
func NewHuggingFaceGenerator(baseURL, model, token string, opts GenerateOptions) *HuggingFaceGenerator {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	return &HuggingFaceGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		opts:    opts,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *HuggingFaceGenerator) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: map[string]any{
			"max_new_tokens":     g.opts.MaxTokens,
			"temperature":        g.opts.Temperature,
			"top_p":              0.9,
			"repetition_penalty": 1.1,
			"return_full_text":   false,
		},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out hfResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("huggingface returned no candidates")
	}
	return CleanResponse(out[0].GeneratedText, prompt), nil
}

var stopMarkers = []string{"###", "Human:", "Assistant:", "\n\n\n", "[INST]", "[/INST]"}

// CleanResponse strips an echoed prompt, cuts at known stop markers, and
// truncates runaway answers to 8 sentences past 400 words.
func CleanResponse(response, prompt string) string {
	if idx := strings.LastIndex(response, prompt); prompt != "" && idx >= 0 {
		response = response[idx+len(prompt):]
	}
	for _, stop := range stopMarkers {
		if idx := strings.Index(response, stop); idx >= 0 {
			response = response[:idx]
		}
	}
	response = strings.TrimSpace(response)
	if len(strings.Fields(response)) > 400 {
		response = utils.TruncateSentences(response, 400, 8)
	}
	return response
}
