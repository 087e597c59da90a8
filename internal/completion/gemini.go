package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// generativeLanguageScope is requested when no API key is configured and
// application default credentials are used instead.
const generativeLanguageScope = "https://www.googleapis.com/auth/generative-language"

type GeminiConfig struct {
	Model    string
	APIKey   string
	Endpoint string
	// HTTPClient replaces both credential sources when set.
	HTTPClient *http.Client
}

type Gemini struct {
	client *generativelanguage.GenerativeClient
	model  string
}

// NewGemini authenticates with the API key if present and falls back to
// Google application default credentials otherwise.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		tokenSource, err := google.DefaultTokenSource(ctx, generativeLanguageScope)
		if err != nil {
			return nil, fmt.Errorf("find google default credentials: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")))
	}

	client, err := generativelanguage.NewGenerativeRESTClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  modelResource(cfg.Model),
	}, nil
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	req := &generativelanguagepb.GenerateContentRequest{
		Model: g.model,
		Contents: []*generativelanguagepb.Content{
			{
				Role: "user",
				Parts: []*generativelanguagepb.Part{
					{Data: &generativelanguagepb.Part_Text{Text: prompt}},
				},
			},
		},
	}

	resp, err := g.client.GenerateContent(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	for _, candidate := range resp.GetCandidates() {
		var sb strings.Builder
		for _, part := range candidate.GetContent().GetParts() {
			sb.WriteString(part.GetText())
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: empty gemini response", ErrUnavailable)
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func modelResource(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}
