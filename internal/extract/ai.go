package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/voxalabs/voxa/internal/models"
)

// AIExtractor asks a chat model to pull task and time out of inputs the
// pattern matcher cannot handle. Structured output keeps the response
// machine-parseable.
type AIExtractor struct {
	client *openai.Client
	model  string
}

func NewAIExtractor(apiKey, baseURL, model string) *AIExtractor {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &AIExtractor{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (a *AIExtractor) Name() string { return "ai" }

const extractPromptTemplate = `You extract reminder requests from user text.

Current time: %s

Extract the task and the absolute trigger time. The user may mix English and
Hinglish: "baad"/"mein" mean "after"/"in", "yaad dilana" means "remind",
hindi numbers: do=2, teen=3, char=4, paanch=5.

Examples:
- "Remind me in 5 minutes to call John" -> task "call John", 5 min from now
- "5 minute baad yaad dilana medicine" -> task "medicine", 5 min from now
- "every day at 8am take vitamins" -> task "take vitamins", recurrence daily

If no actionable task or time can be derived, set task to an empty string.`

type aiExtraction struct {
	Task        string `json:"task"`
	TriggerTime string `json:"trigger_time"`
	Recurrence  string `json:"recurrence"`
	Urgency     string `json:"urgency"`
}

var extractionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"task": {
			"type": "string",
			"description": "The task to remind about, empty if none could be derived"
		},
		"trigger_time": {
			"type": "string",
			"description": "Absolute trigger time as YYYY-MM-DD HH:MM:SS, empty if none"
		},
		"recurrence": {
			"type": "string",
			"enum": ["once", "daily", "weekly", "monthly"],
			"description": "How the reminder repeats"
		},
		"urgency": {
			"type": "string",
			"enum": ["low", "medium", "high"],
			"description": "How urgent the task sounds"
		}
	},
	"required": ["task", "trigger_time", "recurrence", "urgency"],
	"additionalProperties": false
}`)

func (a *AIExtractor) Extract(ctx context.Context, text string, now time.Time) (*Result, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(extractPromptTemplate, now.Format("2006-01-02 15:04:05 (Monday)")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "reminder_extraction",
				Schema: extractionSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	var ex aiExtraction
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &ex); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	if ex.Task == "" || ex.TriggerTime == "" {
		return nil, nil
	}

	at, err := time.ParseInLocation("2006-01-02 15:04:05", ex.TriggerTime, now.Location())
	if err != nil {
		return nil, nil
	}

	rec := models.Recurrence(ex.Recurrence)
	if rec == "" {
		rec = models.RecurOnce
	}

	return &Result{
		Task:        ex.Task,
		TriggerTime: at,
		Recurrence:  rec,
		Urgency:     ex.Urgency,
	}, nil
}
