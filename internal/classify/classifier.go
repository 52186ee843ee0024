package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"screener/internal/logging"
	"screener/internal/media"
	"screener/internal/services/gemini"
)

// Oracle is the generative backend the classifier consults. Satisfied by
// *gemini.Client.
type Oracle interface {
	Generate(ctx context.Context, req gemini.Request) (gemini.Result, error)
}

// Settings tunes prompt vocabulary and option limits.
type Settings struct {
	// Theme is the thematic axis the oracle scores against.
	Theme string
	// SanitizedTheme replaces Theme on the softened retry after a block.
	SanitizedTheme string
	// SanitizeTerms rewrites trigger vocabulary on the softened retry.
	SanitizeTerms map[string]string
	// MaxOptions caps the disambiguation option list.
	MaxOptions int
}

// Classifier asks the oracle to disambiguate and score titles.
type Classifier struct {
	oracle   Oracle
	settings Settings
	logger   *slog.Logger
}

// New constructs a classifier. The logger may be nil.
func New(oracle Oracle, settings Settings, logger *slog.Logger) *Classifier {
	if settings.MaxOptions <= 0 {
		settings.MaxOptions = defaultMaxOptions
	}
	return &Classifier{
		oracle:   oracle,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "classify"),
	}
}

// Classify analyzes a raw title string. The oracle may answer with a
// disambiguation list or a full analysis.
func (c *Classifier) Classify(ctx context.Context, title string) (*Outcome, error) {
	return c.analyze(ctx, func(theme string) string {
		return analysisPromptRaw(title, theme)
	})
}

// ClassifyPreResolved analyzes a title whose identity was already settled
// by a metadata lookup, skipping the disambiguation step.
func (c *Classifier) ClassifyPreResolved(ctx context.Context, pre PreResolved) (*Outcome, error) {
	return c.analyze(ctx, func(theme string) string {
		return analysisPromptPreResolved(pre, theme)
	})
}

func (c *Classifier) analyze(ctx context.Context, promptFor func(theme string) string) (*Outcome, error) {
	result, err := c.generateWithFallback(ctx, promptFor, systemInstruction)
	if err != nil {
		return nil, err
	}
	if result.Blocked {
		c.logger.Warn("analysis blocked after softened retry", "block_reason", result.BlockReason)
		return &Outcome{Analysis: BlockedAnalysis()}, nil
	}

	outcome := ParseAnalysis(result.Text, c.settings.MaxOptions)
	if outcome == nil {
		return nil, fmt.Errorf("classify: unparseable oracle response: %s", snippet(result.Text))
	}
	return outcome, nil
}

// DeepDive requests the per-season breakdown for an already-scored title.
// A double safety block yields a placeholder explanation, not an error.
func (c *Classifier) DeepDive(ctx context.Context, title, year string, mediaType media.Type, atp float64) (DeepDive, error) {
	prompt := deepDivePrompt(title, year, string(mediaType), atp)
	result, err := c.generateWithFallback(ctx, func(string) string {
		return prompt
	}, deepDiveInstruction)
	if err != nil {
		return DeepDive{}, err
	}
	if result.Blocked {
		c.logger.Warn("deep dive blocked after softened retry", "block_reason", result.BlockReason)
		return DeepDive{Explanation: "Analysis blocked by safety filters."}, nil
	}
	return ParseDeepDive(result.Text), nil
}

// generateWithFallback runs the safety state machine: one normal attempt,
// then at most one softened attempt when the prompt was blocked. A block on
// the softened attempt is returned as a blocked result for the caller to
// degrade.
func (c *Classifier) generateWithFallback(ctx context.Context, promptFor func(theme string) string, instructionFor func(theme string) string) (gemini.Result, error) {
	result, err := c.oracle.Generate(ctx, gemini.Request{
		SystemInstruction: instructionFor(c.settings.Theme),
		Prompt:            promptFor(c.settings.Theme),
		EnableSearch:      true,
	})
	if err != nil {
		return gemini.Result{}, err
	}
	if !result.Blocked {
		return result, nil
	}

	c.logger.Warn("oracle blocked request, retrying with softened vocabulary", "block_reason", result.BlockReason)
	softened := SanitizeText(promptFor(c.settings.SanitizedTheme), c.settings.SanitizeTerms)
	return c.oracle.Generate(ctx, gemini.Request{
		SystemInstruction: instructionFor(c.settings.SanitizedTheme),
		Prompt:            softened,
		EnableSearch:      true,
	})
}

func snippet(text string) string {
	clean := strings.Join(strings.Fields(text), " ")
	const limit = 120
	runes := []rune(clean)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}
