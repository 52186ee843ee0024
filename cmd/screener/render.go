package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"screener/internal/media"
	"screener/internal/resolver"
)

const (
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printRecord(out io.Writer, rec *media.Record, fromCache bool) {
	colorize := shouldColorize(out)

	title := rec.DisplayTitle()
	if colorize {
		title = ansiBold + title + ansiReset
	}
	fmt.Fprintf(out, "%s [%s]\n", title, rec.Type)
	if fromCache {
		note := "(cached)"
		if colorize {
			note = ansiDim + note + ansiReset
		}
		fmt.Fprintln(out, note)
	}

	rows := recordRows(rec)
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))

	if rec.Rationale != "" {
		fmt.Fprintf(out, "\n%s\n", rec.Rationale)
	}
	for _, flag := range rec.EpisodeFlags {
		fmt.Fprintf(out, "  ! %s\n", flag)
	}
}

func recordRows(rec *media.Record) [][]string {
	rows := [][]string{
		{"ATP", formatFloat(rec.ATP)},
	}
	if rec.ContentRating != "" {
		rows = append(rows, []string{"Content Rating", rec.ContentRating})
	}
	if rec.IMDb != nil {
		value := formatFloat(*rec.IMDb)
		if rec.IMDbID != "" {
			value += " (" + rec.IMDbID + ")"
		}
		rows = append(rows, []string{"IMDb", value})
	}
	if rec.RottenTomatoes != "" {
		rows = append(rows, []string{"Rotten Tomatoes", rec.RottenTomatoes})
	}
	if rec.Metacritic != nil {
		rows = append(rows, []string{"Metacritic", strconv.Itoa(*rec.Metacritic)})
	}
	if len(rec.SeasonScores) > 0 {
		parts := make([]string, 0, len(rec.SeasonScores))
		for _, season := range rec.SeasonScores {
			parts = append(parts, fmt.Sprintf("S%d:%s", season.Season, formatFloat(season.Score)))
		}
		rows = append(rows, []string{"Season Scores", strings.Join(parts, ", ")})
	}
	if rec.Status != "" {
		rows = append(rows, []string{"Status", rec.Status})
	}
	if rec.TotalSeasons > 0 {
		rows = append(rows, []string{"Seasons", fmt.Sprintf("%d (%d episodes)", rec.TotalSeasons, rec.TotalEpisodes)})
	}
	if rec.NextEpisode != nil {
		next := rec.NextEpisode.Name
		if rec.NextEpisode.AirDate != "" {
			next = strings.TrimSpace(next + " airs " + rec.NextEpisode.AirDate)
		}
		rows = append(rows, []string{"Next Episode", next})
	}
	if rec.VotesUp+rec.VotesDown > 0 {
		rows = append(rows, []string{"Votes", fmt.Sprintf("+%d / -%d", rec.VotesUp, rec.VotesDown)})
	}
	rows = append(rows, []string{"ID", rec.ID})
	return rows
}

func printOptions(out io.Writer, options []resolver.Option) {
	fmt.Fprintln(out, "Multiple titles match. Resolve again with one of:")
	rows := make([][]string, 0, len(options))
	for i, opt := range options {
		poster := ""
		if len(opt.Posters) > 0 {
			poster = opt.Posters[0]
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), opt.Display, poster})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Option", "Poster"}, rows, "#"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
