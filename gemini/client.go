// Package gemini fetches quotes and exchange rates by asking Gemini,
// grounded with Google Search, for a JSON document.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/komorebi"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

// Client implements komorebi.Provider on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string

	// generate sends the prompt and returns the response text.
	generate func(ctx context.Context, prompt string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// NewClient creates a new Gemini client. An empty apiKey lets the genai
// library read GOOGLE_API_KEY or GEMINI_API_KEY from the environment.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c := &Client{client: gc, model: DefaultModel}
	c.generate = c.generateContent
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch asks for the quotes of reqs and the USD and JPY rates.
func (c *Client) Fetch(ctx context.Context, reqs []komorebi.QuoteRequest) (komorebi.RefreshResult, error) {
	text, err := c.generate(ctx, Prompt(reqs))
	if err != nil {
		return komorebi.RefreshResult{}, err
	}
	res, err := ParseResponse(text)
	if err != nil {
		return komorebi.RefreshResult{}, err
	}
	log.Debug().Str("model", c.model).Int("requested", len(reqs)).Int("quotes", len(res.Quotes)).Msg("gemini quotes")
	return res, nil
}

// Prompt returns the question sent for reqs.
func Prompt(reqs []komorebi.QuoteRequest) string {
	symbols := make([]string, len(reqs))
	for i, r := range reqs {
		symbols[i] = r.Market()
	}
	list := strings.Join(symbols, ", ")
	if list == "" {
		list = "none"
	}
	return fmt.Sprintf(`Please find the current real-time stock prices and their 24h percentage change for these symbols: %s.
Also, provide the current exchange rates for USD to TWD and JPY to TWD.
Return the results strictly in JSON format.`, list)
}

// responseSchema is the JSON document Gemini must return.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"prices": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol":         {Type: genai.TypeString},
					"price":          {Type: genai.TypeNumber},
					"dailyChangePct": {Type: genai.TypeNumber, Description: "The percentage change in the last 24 hours"},
					"name":           {Type: genai.TypeString},
				},
				Required: []string{"symbol", "price", "name", "dailyChangePct"},
			},
		},
		"rates": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"usd_to_twd": {Type: genai.TypeNumber},
				"jpy_to_twd": {Type: genai.TypeNumber},
			},
			Required: []string{"usd_to_twd", "jpy_to_twd"},
		},
	},
	Required: []string{"prices", "rates"},
}

func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(result)
}

// extractText concatenates the text parts of the first candidate.
func extractText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
