package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"screener/internal/classify"
	"screener/internal/logging"
	"screener/internal/services/gemini"
	"screener/internal/titleparse"
)

// LinkResolver turns a media database URL into a settled identity.
type LinkResolver interface {
	ResolveLink(ctx context.Context, url string) (*classify.PreResolved, error)
}

// OracleLinkResolver asks the search-grounded oracle to read the linked
// page and report the title it describes as a JSON object.
type OracleLinkResolver struct {
	oracle classify.Oracle
	logger *slog.Logger
}

// NewOracleLinkResolver constructs a link resolver backed by the oracle.
func NewOracleLinkResolver(oracle classify.Oracle, logger *slog.Logger) *OracleLinkResolver {
	return &OracleLinkResolver{
		oracle: oracle,
		logger: logging.NewComponentLogger(logger, "links"),
	}
}

type linkMetadata struct {
	Title  string `json:"title"`
	Year   any    `json:"year"`
	IMDbID string `json:"imdbId"`
}

const linkPromptFormat = `Identify the movie or TV series described by this page: %s
Use the URL structure and your search tool to determine the exact title.
Respond with ONLY a JSON object, no prose, with keys:
"title" (the exact official title), "year" (4-digit release year), "imdbId" (the tt-prefixed IMDb identifier, or null if unknown).`

// ResolveLink extracts the identity behind a supported media URL.
func (l *OracleLinkResolver) ResolveLink(ctx context.Context, url string) (*classify.PreResolved, error) {
	result, err := l.oracle.Generate(ctx, gemini.Request{
		Prompt:       fmt.Sprintf(linkPromptFormat, url),
		EnableSearch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve link: %w", err)
	}
	if result.Blocked {
		return nil, fmt.Errorf("resolve link: request blocked (%s)", result.BlockReason)
	}

	var payload linkMetadata
	if err := gemini.DecodeJSON(result.Text, &payload); err != nil {
		return nil, fmt.Errorf("resolve link: %w", err)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("resolve link: no title in oracle response")
	}

	pre := &classify.PreResolved{
		Title:  strings.TrimSpace(payload.Title),
		Year:   yearString(payload.Year),
		IMDbID: strings.TrimSpace(payload.IMDbID),
	}
	l.logger.Info("link resolved", logging.FieldTitle, pre.Title, "year", pre.Year)
	return pre, nil
}

// yearString tolerates the oracle returning the year as a number.
func yearString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.Itoa(int(v))
	default:
		return ""
	}
}

// resolveLink settles a URL input before parsing. When the oracle cannot
// read the page, the slug in the URL path still names the title, so a
// slug-derived guess keeps the pipeline moving.
func (r *Resolver) resolveLink(ctx context.Context, url string) (*classify.PreResolved, error) {
	if r.links != nil {
		pre, err := r.links.ResolveLink(ctx, url)
		if err == nil && pre != nil {
			return pre, nil
		}
		if err != nil {
			r.logger.Warn("link resolution failed, falling back to slug", "url", url, logging.Error(err))
		}
	}

	title := titleparse.TitleFromSlug(url)
	if title == "" {
		return nil, fmt.Errorf("could not derive a title from %q", url)
	}
	return &classify.PreResolved{Title: title}, nil
}
