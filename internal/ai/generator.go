// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Article tones. Content is written in Brazilian Portuguese, so the
// descriptions fed to the model are in pt-BR as well.
const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneFormal       = "formal"
	ToneCreative     = "creative"
)

// Article lengths, mapped to word-count targets.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

var toneDescriptions = map[string]string{
	ToneProfessional: "profissional e informativo",
	ToneCasual:       "casual e amigável",
	ToneFormal:       "formal e técnico",
	ToneCreative:     "criativo e envolvente",
}

var lengthWordCounts = map[string]string{
	LengthShort:  "400-600",
	LengthMedium: "800-1200",
	LengthLong:   "1500-2000",
}

// HotelContext describes the hotel the article is written for. It anchors the
// generated content to a real place.
type HotelContext struct {
	Name         string
	Neighborhood string
	City         string
	State        string
}

// Location returns "City, State" for prompt interpolation.
func (h HotelContext) Location() string {
	if h.State == "" {
		return h.City
	}
	return h.City + ", " + h.State
}

// ArticleInput is the user's request for a full article.
type ArticleInput struct {
	Title       string
	Description string
	Tone        string // defaults to professional
	Length      string // defaults to medium
	Hotel       HotelContext
}

// Article is a generated blog post draft.
type Article struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	Excerpt         string `json:"excerpt"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
}

// SuggestionInput narrows topic suggestions to a hotel and travel context.
type SuggestionInput struct {
	Hotel      HotelContext
	Season     string // verao, inverno, outono, primavera
	TravelType string // familia, casal, negocios, aventura
	Event      string // optional local event to anchor topics to
}

// Suggestion is one proposed article topic.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Generator turns chat completions into typed article content.
type Generator struct {
	chat ChatClient
}

// NewGenerator creates a Generator on top of a chat client.
func NewGenerator(chat ChatClient) *Generator {
	return &Generator{chat: chat}
}

const articleSystemPrompt = `Você é um especialista em marketing de conteúdo para hotéis e turismo. Você escreve em português brasileiro.

Responda com um objeto JSON válido (sem cercas de código markdown, sem texto extra) com exatamente estes campos:

{
  "title": "Um título envolvente e otimizado para SEO",
  "body": "Conteúdo completo do artigo em Markdown, com subtítulos ##, introdução envolvente e conclusão. Não use título # de nível 1.",
  "excerpt": "Resumo de 2-3 frases",
  "meta_description": "Descrição de até 160 caracteres",
  "keywords": "Palavras-chave separadas por vírgula (5-10)"
}

Responda SOMENTE com o objeto JSON, nenhum outro texto.`

// buildArticlePrompt creates the user prompt for full-article generation.
func buildArticlePrompt(input ArticleInput) string {
	wordCount, ok := lengthWordCounts[input.Length]
	if !ok {
		wordCount = lengthWordCounts[LengthMedium]
	}
	tone, ok := toneDescriptions[input.Tone]
	if !ok {
		tone = toneDescriptions[ToneProfessional]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Escreva um artigo de blog completo baseado no título: %q\n\n", input.Title)
	if input.Description != "" {
		fmt.Fprintf(&sb, "Descrição do artigo: %s\n", input.Description)
	}
	fmt.Fprintf(&sb, "O artigo deve ter %s palavras e um tom %s.\n", wordCount, tone)

	if input.Hotel.Name != "" {
		fmt.Fprintf(&sb, "\nO artigo é para o blog do hotel %s", input.Hotel.Name)
		if input.Hotel.Neighborhood != "" {
			fmt.Fprintf(&sb, ", no bairro %s", input.Hotel.Neighborhood)
		}
		if input.Hotel.City != "" {
			fmt.Fprintf(&sb, ", em %s", input.Hotel.Location())
		}
		sb.WriteString(". Mencione o hotel e a região de forma natural.\n")
	}

	return sb.String()
}

// GenerateArticle produces a full article draft for the given input.
func (g *Generator) GenerateArticle(ctx context.Context, input ArticleInput) (*Article, *ChatResult, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, fmt.Errorf("generate article: title is required")
	}

	resp, err := g.chat.Chat(ctx, articleSystemPrompt, buildArticlePrompt(input))
	if err != nil {
		return nil, nil, fmt.Errorf("generate article: %w", err)
	}

	article := &Article{}
	if err := parseJSONResponse(resp.Content, article); err != nil {
		return nil, resp, fmt.Errorf("generate article: %w", err)
	}
	if article.Title == "" || article.Body == "" {
		return nil, resp, fmt.Errorf("generate article: incomplete content, title and body are required")
	}

	return article, resp, nil
}

const suggestionSystemPrompt = `Você é um especialista em marketing de conteúdo para hotéis e turismo. Você escreve em português brasileiro.

Responda com um objeto JSON válido (sem cercas de código markdown, sem texto extra) com exatamente este formato:

{
  "suggestions": [
    {"title": "Título do artigo sugerido", "description": "Uma ou duas frases descrevendo o artigo"}
  ]
}

Sugira de 5 a 8 tópicos de artigos. Responda SOMENTE com o objeto JSON, nenhum outro texto.`

// buildSuggestionPrompt creates the user prompt for topic suggestions.
func buildSuggestionPrompt(input SuggestionInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sugira tópicos de artigos de blog para o hotel %s", input.Hotel.Name)
	if input.Hotel.Neighborhood != "" {
		fmt.Fprintf(&sb, ", no bairro %s", input.Hotel.Neighborhood)
	}
	fmt.Fprintf(&sb, ", em %s.\n", input.Hotel.Location())

	if input.Season != "" {
		fmt.Fprintf(&sb, "Estação do ano: %s\n", input.Season)
	}
	if input.TravelType != "" {
		fmt.Fprintf(&sb, "Perfil de viagem: %s\n", input.TravelType)
	}
	if input.Event != "" {
		fmt.Fprintf(&sb, "Evento local: %s\n", input.Event)
	}

	sb.WriteString("Os tópicos devem atrair hóspedes em potencial e destacar a região do hotel.\n")
	return sb.String()
}

// SuggestTopics proposes article topics anchored to the hotel's location and
// travel context.
func (g *Generator) SuggestTopics(ctx context.Context, input SuggestionInput) ([]Suggestion, *ChatResult, error) {
	if strings.TrimSpace(input.Hotel.Name) == "" || strings.TrimSpace(input.Hotel.City) == "" {
		return nil, nil, fmt.Errorf("suggest topics: hotel name and city are required")
	}

	resp, err := g.chat.Chat(ctx, suggestionSystemPrompt, buildSuggestionPrompt(input))
	if err != nil {
		return nil, nil, fmt.Errorf("suggest topics: %w", err)
	}

	var result struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := parseJSONResponse(resp.Content, &result); err != nil {
		return nil, resp, fmt.Errorf("suggest topics: %w", err)
	}
	if len(result.Suggestions) == 0 {
		return nil, resp, fmt.Errorf("suggest topics: no suggestions returned")
	}

	return result.Suggestions, resp, nil
}

// parseJSONResponse extracts a JSON object from a model response, tolerating
// markdown code fences and surrounding prose.
func parseJSONResponse(response string, dst any) error {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start >= 0 && end > start {
			if err2 := json.Unmarshal([]byte(response[start:end+1]), dst); err2 != nil {
				return fmt.Errorf("could not parse JSON from response: %w", err2)
			}
			return nil
		}
		return fmt.Errorf("no JSON found in response: %w", err)
	}

	return nil
}
