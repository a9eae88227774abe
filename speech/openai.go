package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	transcribeModel = "whisper-1"
	requestTimeout  = 30 * time.Second
	modelsCacheTTL  = 5 * time.Minute
)

// Client implements Service against the OpenAI HTTP API.
type Client struct {
	apiKey  func() string
	baseURL string
	http    *http.Client

	modelsMu sync.Mutex
	models   []Model
	modelsAt time.Time
}

// NewClient builds a client. apiKey is read per request so key changes in
// settings take effect without rebuilding the client.
func NewClient(apiKey func() string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func (c *Client) key() (string, error) {
	k := strings.TrimSpace(c.apiKey())
	if k == "" {
		return "", ErrCredentialMissing
	}
	return k, nil
}

// Transcribe uploads the audio file and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	key, err := c.key()
	if err != nil {
		return "", err
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}
	writer.WriteField("model", transcribeModel)
	writer.WriteField("response_format", "json")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return "", err
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parsing transcription response: %w", err)
	}
	return out.Text, nil
}

// Translate rewrites text into the target language using a chat model.
func (c *Client) Translate(ctx context.Context, text, target, model string) (string, error) {
	key, err := c.key()
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"model":       model,
		"temperature": 0.3,
		"messages": []map[string]string{
			{
				"role": "system",
				"content": fmt.Sprintf(
					"You are a translator. Translate the user's text into %s. Return only the translated text, nothing else.",
					target),
			},
			{"role": "user", "content": text},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	respData, err := c.do(req)
	if err != nil {
		return "", err
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respData, &out); err != nil {
		return "", fmt.Errorf("parsing translation response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("translation response has no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// ListModels returns chat models usable for translation, recommended ones
// first. Results are cached briefly since the settings UI polls it.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	c.modelsMu.Lock()
	if c.models != nil && time.Since(c.modelsAt) < modelsCacheTTL {
		cached := make([]Model, len(c.models))
		copy(cached, c.models)
		c.modelsMu.Unlock()
		return cached, nil
	}
	c.modelsMu.Unlock()

	key, err := c.key()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing models response: %w", err)
	}

	models := filterChatModels(out.Data)

	c.modelsMu.Lock()
	c.models = models
	c.modelsAt = time.Now()
	c.modelsMu.Unlock()

	result := make([]Model, len(models))
	copy(result, models)
	return result, nil
}

// filterChatModels keeps text generation models and puts the recommended
// ones first.
func filterChatModels(in []Model) []Model {
	recommended := map[string]int{"gpt-4.1": 0, "gpt-4o": 1}
	var out []Model
	for _, m := range in {
		id := m.ID
		if !strings.HasPrefix(id, "gpt-") && !strings.HasPrefix(id, "o1") && !strings.HasPrefix(id, "o3") {
			continue
		}
		for _, skip := range []string{"audio", "realtime", "transcribe", "tts", "image", "search", "instruct"} {
			if strings.Contains(id, skip) {
				id = ""
				break
			}
		}
		if id == "" {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, iOK := recommended[out[i].ID]
		rj, jOK := recommended[out[j].ID]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}
