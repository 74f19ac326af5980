package analyze

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// systemPrompt frames the model as a financial analyst over the extracted
// spreadsheet data.
const systemPrompt = "You are a financial analyst expert. Analyze the provided financial data " +
	"and answer questions accurately. Use Indian currency notation (Cr for crores, L for lakhs) " +
	"where amounts are involved. Base every statement strictly on the provided data."

// Client wraps the OpenAI chat API for spreadsheet analysis.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewClient creates an analysis client. The API key is read from the
// OPENAI_API_KEY environment variable; a missing key is a configuration
// error surfaced before any network call.
func NewClient() (*Client, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	return &Client{
		api:         openai.NewClient(key),
		model:       openai.GPT4,
		temperature: 0.3,
		maxTokens:   1000,
	}, nil
}

// Analyze asks the model a question about the prepared data context.
func (c *Client) Analyze(ctx context.Context, dataContext, query string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Data:\n" + dataContext + "\nQuestion: " + query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("analysis request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("analysis returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
