package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recipeshare/backend/config"
	"github.com/recipeshare/backend/internal/models"
)

// RecipeCandidate is a best-effort, Recipe-shaped object produced by the
// language model. It is NOT a validated recipe: the store's validation
// remains the only authority, and candidates reach it through the public
// recipe API like any other caller's payload.
type RecipeCandidate struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	CookingTime  int                 `json:"cookingTime"`
	Servings     int                 `json:"servings"`
	Difficulty   string              `json:"difficulty"`
	Cuisine      string              `json:"cuisine"`
	Author       string              `json:"author"`
}

// BookingAnalysis is the order information extracted from a free-text
// booking message.
type BookingAnalysis struct {
	Restaurant string `json:"restaurant"`
	Recipe     string `json:"recipe"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Quantity   int    `json:"quantity"`
	Status     string `json:"status"`
}

// BookingState is the conversation state advanced by the booking chat.
// Zero values mean "not chosen yet".
type BookingState struct {
	Restaurant string `json:"restaurant"`
	Recipe     string `json:"recipe"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Guests     int    `json:"guests"`
}

// Message represents a message in the chat. Content is a string for text
// messages or a content-part list for vision requests.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image reference (or an inline data URI).
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents a chat-completions API request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

// Response represents a chat-completions API response
type Response struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RecipeDraft is a generated candidate cached in Redis until the user
// decides whether to save it.
type RecipeDraft struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Candidate RecipeCandidate `json:"candidate"`
}

const recipeJSONContract = `Respond with a single JSON object with exactly these fields: ` +
	`title (string), description (string), ` +
	`ingredients (array of {name: string, amount: number, unit: string}), ` +
	`instructions (array of strings), cookingTime (integer, minutes), ` +
	`servings (integer), difficulty ("easy" | "medium" | "hard"), ` +
	`cuisine (string), author (string).`

const draftTTL = 24 * time.Hour

// LLMService talks to an OpenAI-compatible chat-completions API.
type LLMService struct {
	apiKey      string
	apiURL      string
	model       string
	visionModel string
	client      *http.Client
	redis       *redis.Client
	logger      *zap.Logger
}

// NewLLMService creates a new LLMService instance. The Redis client is
// optional; without it draft caching is disabled.
func NewLLMService(cfg config.AIConfig, redisClient *redis.Client, logger *zap.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is not configured")
	}

	return &LLMService{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.APIURL,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		client:      &http.Client{Timeout: cfg.Timeout},
		redis:       redisClient,
		logger:      logger,
	}, nil
}

// chat sends one completion request and returns the assistant's content.
func (s *LLMService) chat(ctx context.Context, model string, messages []Message, jsonResponse bool) (string, error) {
	reqBody := Request{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
	}
	if jsonResponse {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat API response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// GenerateRecipe turns a free-text prompt into a recipe candidate.
func (s *LLMService) GenerateRecipe(ctx context.Context, prompt string) (*RecipeCandidate, error) {
	content, err := s.chat(ctx, s.model, []Message{
		{Role: "system", Content: "You are a professional chef. Create a complete recipe for the user's request. " + recipeJSONContract},
		{Role: "user", Content: prompt},
	}, true)
	if err != nil {
		return nil, err
	}

	var candidate RecipeCandidate
	if err := json.Unmarshal([]byte(content), &candidate); err != nil {
		return nil, fmt.Errorf("failed to parse generated recipe: %w", err)
	}

	applyRecipeDefaults(&candidate)
	return &candidate, nil
}

// GenerateRecipeFromPhoto turns a food photo into a recipe candidate. The
// image is inlined as a base64 data URI content part.
func (s *LLMService) GenerateRecipeFromPhoto(ctx context.Context, contentType string, photo []byte) (*RecipeCandidate, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(photo))

	content, err := s.chat(ctx, s.visionModel, []Message{
		{Role: "system", Content: "You are a professional chef that specializes in analyzing food images and creating recipes. " + recipeJSONContract},
		{Role: "user", Content: []ContentPart{
			{Type: "text", Text: "Create a recipe based on this food image."},
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURI}},
		}},
	}, true)
	if err != nil {
		return nil, err
	}

	var candidate RecipeCandidate
	if err := json.Unmarshal([]byte(content), &candidate); err != nil {
		return nil, fmt.Errorf("failed to parse generated recipe: %w", err)
	}

	applyRecipeDefaults(&candidate)
	return &candidate, nil
}

// applyRecipeDefaults fills fields the model left out. This defaulting is
// deliberately confined to the generation path; the recipe store never
// substitutes defaults.
func applyRecipeDefaults(c *RecipeCandidate) {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = "Untitled Recipe"
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = "No description provided"
	}
	if strings.TrimSpace(c.Author) == "" {
		c.Author = "Anonymous"
	}
	if strings.TrimSpace(c.Cuisine) == "" {
		c.Cuisine = "International"
	}
	if c.Difficulty != models.DifficultyEasy && c.Difficulty != models.DifficultyMedium && c.Difficulty != models.DifficultyHard {
		c.Difficulty = models.DifficultyMedium
	}
	if c.Servings < 1 {
		c.Servings = 1
	}
	if c.CookingTime < 1 {
		c.CookingTime = 30
	}
}

const bookingAnalysisPrompt = `You are an order analysis system. Extract the order from the user's message.
Extract: the dish/recipe name, the order date (if given), the order time (if given), the number of portions (if given).
Date rules: use "today", "tomorrow", "day after tomorrow" or "in N days" for relative dates, or YYYY-MM-DD for explicit ones.
Time rules: use HH:mm. If no time is given, leave the field empty.
Restaurant: %s
Respond with a JSON object with fields: recipe, date, time, quantity.`

// AnalyzeBooking extracts order details from a booking message and fills
// the gaps the way the order intake always has: current time, today, one
// portion.
func (s *LLMService) AnalyzeBooking(ctx context.Context, restaurant, message string) (*BookingAnalysis, error) {
	content, err := s.chat(ctx, s.model, []Message{
		{Role: "system", Content: fmt.Sprintf(bookingAnalysisPrompt, restaurant)},
		{Role: "user", Content: message},
	}, true)
	if err != nil {
		return nil, err
	}

	var analysis BookingAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse booking analysis: %w", err)
	}

	now := time.Now()
	if analysis.Time == "" || strings.Contains(analysis.Time, "current time") {
		analysis.Time = now.Format("15:04")
	}
	if analysis.Date == "" {
		analysis.Date = "today"
	}
	if analysis.Quantity < 1 {
		analysis.Quantity = 1
	}
	analysis.Restaurant = restaurant
	analysis.Status = models.OrderStatusPending

	return &analysis, nil
}

const bookingChatPrompt = `You are a restaurant booking assistant. Help the user book a restaurant and pick a recipe.

Available restaurants: %s

Current booking data:
- Restaurant: %s
- Recipe: %s
- Date: %s
- Time: %s
- Guests: %s

Rules:
1. Check whether a mentioned restaurant exists in the available list.
2. If the restaurant is not found, say so and offer the available ones.
3. After the restaurant is chosen, help pick a recipe.
4. Collect the details one at a time: restaurant, then recipe, then date, time and guest count.
5. Use natural language and be friendly.
When you confirm a recipe choice, quote its name, e.g.: recipe "Pancakes".`

var (
	bookingDateRe   = regexp.MustCompile(`(\d{1,2}\.\d{1,2}\.\d{4}|\d{4}-\d{2}-\d{2})`)
	bookingTimeRe   = regexp.MustCompile(`(\d{1,2}:\d{2})`)
	bookingRecipeRe = regexp.MustCompile(`(?i)recipe "([^"]+)"`)
	bookingGuestsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:guest|people|person)`)
)

// BookingChat produces one assistant turn and advances the booking state
// with best-effort pattern matches over the reply. The heuristics have no
// accuracy contract; they only pre-fill the form the user confirms.
func (s *LLMService) BookingChat(ctx context.Context, message string, state BookingState, restaurants []string) (string, BookingState, error) {
	guests := "not chosen"
	if state.Guests > 0 {
		guests = strconv.Itoa(state.Guests)
	}
	prompt := fmt.Sprintf(bookingChatPrompt,
		strings.Join(restaurants, ", "),
		orNotChosen(state.Restaurant),
		orNotChosen(state.Recipe),
		orNotChosen(state.Date),
		orNotChosen(state.Time),
		guests,
	)

	reply, err := s.chat(ctx, s.model, []Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: message},
	}, false)
	if err != nil {
		return "", state, err
	}

	updated := advanceBookingState(reply, state, restaurants)
	return reply, updated, nil
}

func orNotChosen(v string) string {
	if v == "" {
		return "not chosen"
	}
	return v
}

// advanceBookingState scans an assistant reply for booking details that
// are still missing from the state.
func advanceBookingState(reply string, state BookingState, restaurants []string) BookingState {
	lower := strings.ToLower(reply)

	if state.Restaurant == "" {
		for _, r := range restaurants {
			if strings.Contains(lower, strings.ToLower(r)) {
				state.Restaurant = r
				break
			}
		}
	}
	if state.Recipe == "" {
		if m := bookingRecipeRe.FindStringSubmatch(reply); m != nil {
			state.Recipe = m[1]
		}
	}
	if state.Date == "" {
		if m := bookingDateRe.FindStringSubmatch(reply); m != nil {
			state.Date = m[1]
		}
	}
	if state.Time == "" {
		if m := bookingTimeRe.FindStringSubmatch(reply); m != nil {
			state.Time = m[1]
		}
	}
	if state.Guests == 0 {
		if m := bookingGuestsRe.FindStringSubmatch(reply); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				state.Guests = n
			}
		}
	}

	return state
}

// SaveDraft caches a generated candidate in Redis for 24 hours.
func (s *LLMService) SaveDraft(ctx context.Context, candidate *RecipeCandidate) (*RecipeDraft, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("draft cache is not configured")
	}

	draft := &RecipeDraft{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Candidate: *candidate,
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := fmt.Sprintf("recipe:draft:%s", draft.ID)
	if err := s.redis.Set(ctx, key, data, draftTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to save draft to Redis: %w", err)
	}

	return draft, nil
}

// GetDraft retrieves a cached draft.
func (s *LLMService) GetDraft(ctx context.Context, id string) (*RecipeDraft, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("draft cache is not configured")
	}

	key := fmt.Sprintf("recipe:draft:%s", id)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

// DeleteDraft evicts a cached draft.
func (s *LLMService) DeleteDraft(ctx context.Context, id string) error {
	if s.redis == nil {
		return fmt.Errorf("draft cache is not configured")
	}

	key := fmt.Sprintf("recipe:draft:%s", id)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}
