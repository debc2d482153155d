// Package gemini implements the RecipeGenerator port against the Google
// Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/pkg/errors"
	"go.uber.org/zap"
)

// Client calls the generateContent endpoint and parses the model's JSON
// answer into the domain types. There is no fallback path: if the model is
// down or returns garbage, the caller gets an error and no quota is charged.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a Gemini client
func NewClient(baseURL, model, apiKey string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("gemini-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire structures of the generateContent API.
type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs one model call for the requested mode. Missing configuration
// fails the request up front rather than sending a doomed call.
func (c *Client) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.Generation, error) {
	if c.apiKey == "" {
		return nil, errors.NewConfig("AI service is not configured")
	}

	var prompt string
	if req.Mode == recipe.ModeDaily {
		prompt = dailyPrompt(req.Ingredients, req.Goal, req.IncludeShoppingList)
	} else {
		prompt = singlePrompt(req.Ingredients, req.Goal, req.Time)
	}

	text, err := c.generateContent(ctx, prompt)
	if err != nil {
		c.logger.Error("Gemini call failed", zap.Error(err))
		return nil, errors.New(errors.CodeAIUnavailable, "Erro ao gerar receita. Tente novamente em alguns instantes.").WithCause(err)
	}

	gen, err := parseGeneration(req.Mode, text)
	if err != nil {
		c.logger.Error("Failed to parse Gemini response",
			zap.Error(err),
			zap.String("response", truncate(text, 200)),
		)
		return nil, errors.New(errors.CodeAIBadResponse, "Erro ao processar resposta da IA. Tente novamente.").WithCause(err)
	}

	c.logger.Info("generation succeeded",
		zap.String("mode", string(req.Mode)),
		zap.String("title", gen.Title()),
	)
	return gen, nil
}

// generateContent posts the prompt and returns the first candidate's text.
func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// parseGeneration extracts the JSON object from the model text and validates
// the shape the mode requires. Models often wrap JSON in markdown fences or
// surround it with prose, so the parser takes the outermost brace window.
func parseGeneration(mode recipe.Mode, text string) (*recipe.Generation, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, fmt.Errorf("empty model output")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	jsonStr := text[start : end+1]

	if mode == recipe.ModeDaily {
		var menu recipe.DailyMenu
		if err := json.Unmarshal([]byte(jsonStr), &menu); err != nil {
			return nil, fmt.Errorf("failed to parse daily menu: %w", err)
		}
		if menu.Title == "" {
			return nil, fmt.Errorf("daily menu is missing a title")
		}
		if len(menu.Meals) != recipe.MealsPerDay {
			return nil, fmt.Errorf("daily menu has %d meals, want %d", len(menu.Meals), recipe.MealsPerDay)
		}
		menu.Type = string(recipe.ModeDaily)
		return &recipe.Generation{Mode: recipe.ModeDaily, Menu: &menu}, nil
	}

	var r recipe.Recipe
	if err := json.Unmarshal([]byte(jsonStr), &r); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	if r.Title == "" || len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
		return nil, fmt.Errorf("recipe is missing required fields")
	}
	r.Type = string(recipe.ModeSingle)
	return &recipe.Generation{Mode: recipe.ModeSingle, Recipe: &r}, nil
}

// singlePrompt builds the prompt for one recipe.
func singlePrompt(ingredients, goal, timeLabel string) string {
	return fmt.Sprintf(`Você é um chef nutricionista especialista em Culinária Fitness e Nutrição Esportiva (FitChef IA).

SUA MISSÃO:
Criar UMA ÚNICA receita fitness, prática e saborosa.

PARÂMETROS:
- Ingredientes disponíveis: %s
- Objetivo: %s
- Tempo de preparo desejado: %s

REGRAS:
1. Use APENAS os ingredientes listados, mas pode adicionar temperos básicos.
2. Respeite estritamente o tempo de preparo: %s.
3. Foco total no objetivo: %s.

FORMATO DE RESPOSTA (JSON APENAS):
{
  "type": "single",
  "title": "Nome do prato (Ex: Empada Fit de Batata Doce)",
  "description": "Descrição focada no sabor e ganho nutricional",
  "time": "Tempo estimado (Ex: 15 min)",
  "calories": "Apenas o valor calórico (Ex: 350 kcal)",
  "protein": "Apenas a quantidade de proteína (Ex: 40g)",
  "imagePrompt": "Descrição visual em inglês para IA de imagem",
  "ingredients": ["Lista completa de ingredientes (com quantidades)"],
  "instructions": ["Passo 1 detalhado...", "Passo 2 detalhado...", "Passo 3 detalhado..."]
}
`, ingredients, goal, timeLabel, timeLabel, goal)
}

// dailyPrompt builds the prompt for a full-day menu. The shopping list line
// is emitted only when the caller is entitled to one.
func dailyPrompt(ingredients, goal string, includeShoppingList bool) string {
	shoppingAccess := "NÃO"
	shoppingField := ""
	if includeShoppingList {
		shoppingAccess = "SIM"
		shoppingField = `,
  "shopping_list": {"Hortifruti": ["item 1", "item 2"], "Proteínas": ["item 1"], "Mercearia": ["item 1"]}`
	}

	return fmt.Sprintf(`Você é um chef nutricionista especialista em Culinária Fitness e Nutrição Esportiva (FitChef IA).

SUA MISSÃO:
Criar um CARDÁPIO DO DIA COMPLETO (Café, Almoço, Lanche, Jantar) fitness, prático e saboroso.

PARÂMETROS:
- Ingredientes do usuário: %s
- Objetivo: %s

REGRAS:
1. Use APENAS os ingredientes listados, mas pode adicionar temperos básicos (sal, pimenta, azeite, ervas).
2. O cardápio deve ser focado no objetivo: %s.
3. Seja criativo! Nada de comida sem graça.
4. Se o usuário tiver acesso (%s), gere também uma LISTA DE COMPRAS JSON.

FORMATO DE RESPOSTA (JSON APENAS):
{
  "type": "daily",
  "title": "Cardápio Fit do Dia - %s",
  "meals": [
    {"name": "Café da Manhã", "title": "Nome do Prato", "calories": "X kcal", "protein": "Xg", "instructions": ["Passo 1", "Passo 2"]},
    {"name": "Almoço", "title": "Nome do Prato", "calories": "X kcal", "protein": "Xg", "instructions": ["Passo 1", "Passo 2"]},
    {"name": "Lanche", "title": "Nome do Prato", "calories": "X kcal", "protein": "Xg", "instructions": ["Passo 1", "Passo 2"]},
    {"name": "Jantar", "title": "Nome do Prato", "calories": "X kcal", "protein": "Xg", "instructions": ["Passo 1", "Passo 2"]}
  ],
  "total_calories": "Total kcal",
  "total_protein": "Total g",
  "imagePrompt": "A beautiful flatlay photography of healthy fitness meals for a full day, high quality, 4k"%s
}
`, ingredients, goal, goal, shoppingAccess, goal, shoppingField)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
