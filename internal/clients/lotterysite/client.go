// Package lotterysite provides scraping of historical draw results from the
// lottery.net archive pages.
package lotterysite

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/domain"
)

// siteDateLayout matches the archive's human-readable dates,
// e.g. "Wednesday March 26, 2025".
const siteDateLayout = "Monday January 2, 2006"

// Client scrapes yearly draw archives.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new archive scraper. baseURL is the site root without a
// trailing slash (e.g. "https://www.lottery.net").
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "lotterysite").Logger(),
	}
}

// FetchYear scrapes all draws of a game for one calendar year. Rows that
// cannot be parsed or fail domain validation are skipped with a warning;
// a page with no parseable rows is not an error (future years are empty).
func (c *Client) FetchYear(ctx context.Context, game domain.GameType, year int) ([]domain.Draw, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("fetch year: %w: %q", domain.ErrUnknownGame, game)
	}

	url := fmt.Sprintf("%s/%s/numbers/%d", c.baseURL, game, year)
	c.log.Debug().Str("url", url).Msg("Fetching draw archive page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive returned status %d for %s/%d", resp.StatusCode, game, year)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive page: %w", err)
	}

	draws := c.parseRows(doc, game)

	c.log.Info().
		Str("game", string(game)).
		Int("year", year).
		Int("draws", len(draws)).
		Msg("Scraped draw archive page")

	return draws, nil
}

// parseRows extracts draws from the archive table. Each row holds a centered
// date cell and a results list with 5 ball items plus the special ball item.
func (c *Client) parseRows(doc *goquery.Document, game domain.GameType) []domain.Draw {
	var draws []domain.Draw

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		date, ok := c.parseDate(row)
		if !ok {
			return
		}

		numbers, special, ok := c.parseNumbers(row, game)
		if !ok {
			c.log.Warn().
				Str("game", string(game)).
				Str("date", date).
				Msg("Skipping row with unparseable numbers")
			return
		}

		draw := domain.Draw{
			Date:        date,
			Numbers:     numbers,
			SpecialBall: special,
			Type:        game,
		}

		if err := draw.Validate(); err != nil {
			c.log.Warn().
				Err(err).
				Str("game", string(game)).
				Str("date", date).
				Msg("Skipping row with out-of-domain draw")
			return
		}

		draws = append(draws, draw)
	})

	return draws
}

// parseDate reads the centered date cell and converts it to ISO 8601.
func (c *Client) parseDate(row *goquery.Selection) (string, bool) {
	cell := row.Find(`td[style="text-align: center;"]`).First()
	if cell.Length() == 0 {
		return "", false
	}

	text := strings.TrimSpace(cell.Find("a").First().Text())
	if text == "" {
		text = strings.TrimSpace(cell.Text())
	}
	if text == "" {
		return "", false
	}

	// Collapse internal whitespace before parsing
	text = strings.Join(strings.Fields(text), " ")

	parsed, err := time.Parse(siteDateLayout, text)
	if err != nil {
		c.log.Warn().Str("raw", text).Msg("Skipping row with unparseable date")
		return "", false
	}

	return parsed.Format(domain.DateLayout), true
}

// parseNumbers reads the results list: 5 regular balls in drawn order plus
// the game-specific special ball.
func (c *Client) parseNumbers(row *goquery.Selection, game domain.GameType) ([]int, int, bool) {
	list := row.Find(fmt.Sprintf("ul.multi.results.%s", game)).First()
	if list.Length() == 0 {
		return nil, 0, false
	}

	var numbers []int
	valid := true
	list.Find("li.ball").Each(func(_ int, item *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(item.Text()))
		if err != nil {
			valid = false
			return
		}
		numbers = append(numbers, n)
	})
	if !valid || len(numbers) != domain.RegularNumbersPerDraw {
		return nil, 0, false
	}

	specialClass := "li.powerball"
	if game == domain.GameMegaMillions {
		specialClass = "li.mega-ball"
	}

	specialItem := list.Find(specialClass).First()
	if specialItem.Length() == 0 {
		return nil, 0, false
	}

	special, err := strconv.Atoi(strings.TrimSpace(specialItem.Text()))
	if err != nil {
		return nil, 0, false
	}

	return numbers, special, true
}
