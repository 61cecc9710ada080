package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultOpenTDBURL = "https://opentdb.com"

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = defaultOpenTDBURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// OpenTDBQuestion mirrors one result entry. Text fields arrive HTML-escaped.
type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// FetchOptions narrows an OpenTDB request. Empty fields are omitted.
type FetchOptions struct {
	Amount     int
	Difficulty string
	Type       string
}

func (c *OpenTDBClient) Fetch(ctx context.Context, opts FetchOptions) ([]OpenTDBQuestion, error) {
	if opts.Amount <= 0 {
		return nil, fmt.Errorf("opentdb amount must be positive, got %d", opts.Amount)
	}
	values := url.Values{}
	values.Set("amount", fmt.Sprint(opts.Amount))
	if opts.Difficulty != "" {
		values.Set("difficulty", opts.Difficulty)
	}
	if opts.Type != "" {
		values.Set("type", opts.Type)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opentdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("opentdb decode: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
	return payload.Results, nil
}
