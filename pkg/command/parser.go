package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crewdeck/crewdeck/internal/config"
	log "github.com/sirupsen/logrus"
)

// Parser turns a free-text query into a structured Intent.
type Parser interface {
	Parse(ctx context.Context, query string) (Intent, error)
}

const systemPrompt = `You translate dashboard commands into JSON.
Reply with a single JSON object and nothing else:
{"action": "create|complete|approve|list|status|summary", "entity": "task|employee|note|transaction", "args": {...}}
Known args: "content", "name", "status", "amount", "category", "year", "month", "text".
If the command does not fit any action/entity pair, reply {"action": "", "entity": "", "args": {}}.`

// HTTPParser sends the query to an OpenAI-compatible chat completion endpoint
// and decodes the model reply strictly as an Intent.
type HTTPParser struct {
	cfg    config.Assist
	client *http.Client
}

func NewHTTPParser(cfg config.Assist) *HTTPParser {
	return &HTTPParser{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *HTTPParser) Parse(ctx context.Context, query string) (Intent, error) {
	payload, err := json.Marshal(chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return Intent{}, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.cfg.BaseUrl+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.ApiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return Intent{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("chat endpoint returned status %d: %s", resp.StatusCode, string(body))
		log.Error(err)
		return Intent{}, err
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		log.Errorf("Failed to decode chat response: %v", err)
		return Intent{}, err
	}
	if len(chat.Choices) == 0 {
		return Intent{}, fmt.Errorf("%w: empty model reply", ErrUnparsable)
	}

	return decodeIntent(chat.Choices[0].Message.Content)
}

// decodeIntent parses the model reply as a bare JSON object. Models sometimes
// wrap the object in a code fence; that much is tolerated, nothing else.
func decodeIntent(reply string) (Intent, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var intent Intent
	decoder := json.NewDecoder(strings.NewReader(reply))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&intent); err != nil {
		return Intent{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	if intent.Action == "" || intent.Entity == "" {
		return Intent{}, ErrUnparsable
	}
	if intent.Args == nil {
		intent.Args = map[string]string{}
	}
	return intent, nil
}
