// Package analysis contains the AI field analyzer and the orchestrator that
// fans analysis tasks out over the working record set.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/dharsanguruparan/JobSift/internal/model"
)

// maxPromptChars bounds how much extracted text is sent to the model.
const maxPromptChars = 20000

// Analyzer turns extracted document text into a structured field payload.
type Analyzer struct {
	llm       llms.Model
	modelName string
}

// NewAnalyzer constructs an Analyzer over any langchaingo model. Tests
// inject fakes through the llms.Model interface.
func NewAnalyzer(llm llms.Model, modelName string) *Analyzer {
	return &Analyzer{llm: llm, modelName: modelName}
}

// Analyze prompts the model with the extracted text and parses its response
// as a JSON object. A response that does not parse is an analysis failure
// for the record, never a crash.
func (a *Analyzer) Analyze(ctx context.Context, text string) (model.Payload, error) {
	if strings.TrimSpace(text) == "" {
		return model.Payload{}, errors.New("no text to analyze")
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	prompt := fmt.Sprintf(extractionPrompt, text)
	opts := []llms.CallOption{}
	if a.modelName != "" {
		opts = append(opts, llms.WithModel(a.modelName))
	}
	resp, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, opts...)
	if err != nil {
		return model.Payload{}, fmt.Errorf("generate: %w", err)
	}
	payload, err := model.ParsePayload([]byte(stripFences(resp)))
	if err != nil {
		return model.Payload{}, fmt.Errorf("parse model output: %w", err)
	}
	return payload, nil
}

// stripFences removes markdown code fences some models wrap JSON in despite
// instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
