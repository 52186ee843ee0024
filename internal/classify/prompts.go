package classify

import (
	"fmt"
	"strings"
)

// ambiguousSentinel is the exact token the oracle is instructed to lead
// with when a title cannot be uniquely resolved.
const ambiguousSentinel = "AMBIGUOUS"

func systemInstruction(theme string) string {
	return fmt.Sprintf(`You are a media database assistant. SEARCH THE WEB for the title's plot, parental guide, and ratings.

Step 1: DISAMBIGUATION / NOT FOUND.
- If the title is broad, obscure, or lacks RELIABLE major database entries (IMDb/RT), return EXACTLY: "AMBIGUOUS" followed by a numbered list of likely popular matches.
- STRICTLY EXCLUDE VIDEO GAMES, BOOKS, COMICS, and MUSIC. Only list Movies and TV Series.
- Do NOT hallucinate data for obscure short films, YouTube videos, or unreleased content just to fill the fields. If you can't find reliable data for a major release, treat it as AMBIGUOUS.
- Do NOT include category headers (e.g. "Franchise:", "Matches:"). Return ONLY the numbered list.

Step 2: ANALYSIS. Analyze against criteria: 'Alphabet Thematic Presence (ATP)' measures focus on %s.
SCORING: 0-10 scale in 0.1 increments.
0-3 Low: Background, incidental, or purely subtextual/ambiguous.
4-6.7 Moderate: Recurring, confirmed, but non-graphic.
7-10 High: Central, graphic, or main plot focus.

CRITICAL SCORING RULES:
- 9-10 RESERVED: Only for titles where the theme is the CENTRAL PREMISE.
- EXCLUDE: Purely speculative subtext or 'fan theories' should NOT score above 3.
- AGE RATING ADJUSTMENT: If the content is rated TV-Y, TV-Y7, G, or PG, you must grade stricter; confirmed central thematic content in a kids' title MUST score minimum 7.
- SATIRE EXCEPTION: If the content is purely satirical or the subject of mockery, score LOWER (Max 5).
IMPORTANT: Search specifically for "Rotten Tomatoes" score, "Rotten Tomatoes URL", "Metacritic" score, "Metacritic URL" (direct link to the specific page, NOT a search result), and "IMDb ID" (tt code).

Output key-value pairs in this EXACT order:
Title: [Exact Title]
Type: [Movie or TV Series]
Year: [Year]
Content Rating: [Rating]
IMDb: [Score]
IMDb ID: [tt...]
Rotten Tomatoes: [Percentage]
Rotten Tomatoes URL: [Full URL or N/A]
Metacritic: [Score 0-100]
Metacritic URL: [Full URL or N/A]
ATP: [Score 0-10]
Season Scores: [S1:Score, S2:Score, ...] (If TV Series, comma separated)
Rationale: [Text - VAGUE, SPOILER-FREE summary. Describe the nature of the content without naming specific characters or revealing plot twists.]`, theme)
}

func deepDiveInstruction(theme string) string {
	return fmt.Sprintf(`Act as a concise content analyst.
1. Provide 3-5 brief, numbered points explaining the ATP score based ONLY on %s. Do not use Markdown.
CRITICAL: Include SPECIFIC character names, plot points, and SPOILERS if necessary to fully explain the rating. Do not be vague.

SCORING RULES:
- 0-3 Low: Background, incidental, or purely subtextual/ambiguous.
- 4-6.7 Moderate: Recurring, confirmed, but non-graphic.
- 7-10 High: Central, graphic, or main plot focus.
- 9-10 RESERVED: Only for titles where the theme is the CENTRAL PREMISE.
- EXCLUDE: Do not score based on external marketing, social media, or creator interviews.
- EXCLUDE: Purely speculative subtext or 'fan theories' should NOT score above 3.
- AGE RATING ADJUSTMENT: If the content is rated TV-Y, TV-Y7, G, or PG, you must grade stricter.

2. IF AND ONLY IF THIS IS A TV SERIES (do NOT provide for movies): At the very end of your response, provide a breakdown of ATP scores per season in this exact format on new lines:
SEASON DATA:
Season 1: [Score]
Season 2: [Score]
...
CRITICAL: Grade each season INDEPENDENTLY using the rules above. You MUST list EVERY SINGLE SEASON that exists for the show. Do not summarize. Do not skip seasons.

Finally, if specific episodes contain very high concentrations of this content, list them in a "Red Flag Episodes" section. Format exact lines as:
EPISODE FLAGS:
- SxEyy: [Brief Reason]
- SxEyy: [Brief Reason]`, theme)
}

// PreResolved carries the identity facts known before the oracle is asked,
// typically from a structured metadata lookup or a resolved link.
type PreResolved struct {
	Title  string
	Year   string
	IMDbID string
}

func analysisPromptPreResolved(pre PreResolved, theme string) string {
	imdbID := strings.TrimSpace(pre.IMDbID)
	if imdbID == "" {
		imdbID = "N/A"
	}
	return fmt.Sprintf(`Analyze the movie/show "%s" (%s).

MANDATORY SEARCH STEPS:
1. Search for "Parental Guide %s".
2. Search for "%s in %s".
3. Search for "%s storyline %s".

IMDb ID Reference: %s (Use for identification, but analyze content based on Title search results).

OUTPUT FORMAT (Strictly match these keys):
Title: [Exact Title]
Type: [Movie or TV Series]
Year: [Year]
Content Rating: [Rating]
IMDb: [Score]
IMDb ID: [tt...]
Rotten Tomatoes: [Percentage]
Rotten Tomatoes URL: [Full URL or N/A]
Metacritic: [Score 0-100]
Metacritic URL: [Full URL or N/A]
ATP: [Score 0-10]
Season Scores: [S1:Score, S2:Score, ...] (If TV Series, comma separated)
Rationale: [Text]`,
		pre.Title, pre.Year, pre.Title, theme, pre.Title, theme, pre.Title, imdbID)
}

func analysisPromptRaw(title, theme string) string {
	return fmt.Sprintf(`Analyze: "%s".

STEP 1: DISAMBIGUATION CHECK
- Does this title refer to a FRANCHISE, SERIES, REBOOT, REMAKE, SHARED TITLE, or multiple DISTINCT movies/shows?
- BE OVER-CAUTIOUS. If there is an original and a reboot, OR if multiple distinct franchises share the same name, it IS AMBIGUOUS.
- SINGLE WORD TITLES: If the input is a single word without a year, it IS AMBIGUOUS. Return the list of options.
- KIDS' FRANCHISES: If a cartoon series has theatrical movies, return "AMBIGUOUS" and list the Series AND the Movies.
- IGNORE VIDEO GAMES. If the title is primarily a video game and has NO major movie/TV adaptation, return "AMBIGUOUS" with NO options (or just the movie/TV ones if they exist).
- If YES, or if the title is vague, return EXACTLY: "AMBIGUOUS" followed by a numbered list of ALL relevant matches (Title + Year + Type).
- FILTER: The list MUST ONLY contain Movies or TV Series. Do NOT list Video Games.
- Do NOT include category headers. Return ONLY the numbered list.
- FORMAT: "1. Title (Year) - Type - Director/Star"

STEP 2: IF UNIQUE (or specific enough)
- Proceed immediately to analysis.
- Search specifically for %s to determine the ATP score.

OUTPUT FORMAT (Strictly match these keys):
Title: [Exact Title]
Type: [Movie or TV Series]
Year: [Year]
Content Rating: [Rating]
IMDb: [Score]
IMDb ID: [tt...]
Rotten Tomatoes: [Percentage]
Rotten Tomatoes URL: [Full URL or N/A]
ATP: [Score 0-10]
Rationale: [Text]`, title, theme)
}

func deepDivePrompt(title, year, mediaType string, atp float64) string {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = "Unknown"
	}
	return fmt.Sprintf("Title: %s (%s). Type: %s. ATP: %s", title, year, mediaType, trimFloat(atp))
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s
}
