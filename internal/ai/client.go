// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ai generates blog content through an OpenAI-compatible chat API.
// Groq is the default backend; any endpoint speaking the same protocol works.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrNotConfigured is returned when no API key has been set.
var ErrNotConfigured = errors.New("ai: no API key configured")

// ChatResult holds the model output and token accounting for one completion.
type ChatResult struct {
	Content          string
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	Model            string
}

// ChatClient is the completion transport the generator talks to.
type ChatClient interface {
	Chat(ctx context.Context, system, user string) (*ChatResult, error)
}

// Client wraps the OpenAI SDK pointed at a configurable base URL.
type Client struct {
	api         openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewClient creates a chat client. baseURL selects the backend
// (https://api.groq.com/openai/v1 for Groq); model names the chat model.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       model,
		maxTokens:   4096,
		temperature: 0.7,
	}, nil
}

// Chat sends a system+user prompt pair and returns the first choice.
func (c *Client) Chat(ctx context.Context, system, user string) (*ChatResult, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: no choices returned")
	}

	return &ChatResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
		TotalTokens:      completion.Usage.TotalTokens,
		Model:            completion.Model,
	}, nil
}
