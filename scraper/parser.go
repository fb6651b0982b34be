package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tracklift/models"
)

var (
	saveRegex     = regexp.MustCompile(`(?i)([\d,]+)\s*saves?`)
	songRegex     = regexp.MustCompile(`(?i)([\d,]+)\s*songs?`)
	durationRegex = regexp.MustCompile(`\b(\d+):(\d{2})\b`)
)

// parsePlaylistPage parses rendered playlist markup into an un-normalized
// extract. It reads structural containers (data-testid attributes), not
// visual layout, so an otherwise-loaded page missing the expected containers
// is a parse failure — a signal that the target markup has drifted —
// distinct from a page that never arrived.
func parsePlaylistPage(html, pageURL string) (*models.PlaylistExtract, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.NewError(models.ErrParseFailure, models.MethodScrape, err)
	}

	heading := doc.Find("h1").First()
	rows := doc.Find("div[data-testid='tracklist-row']")

	if heading.Length() == 0 && rows.Length() == 0 {
		// Nothing recognizable at all: interstitial, captcha, or a full
		// redesign of the page.
		return nil, models.Errorf(models.ErrBlockedOrChanged, models.MethodScrape,
			"page contains no recognizable playlist markup")
	}
	if rows.Length() == 0 {
		return nil, models.Errorf(models.ErrParseFailure, models.MethodScrape,
			"no track rows found; playlist markup may have changed")
	}

	extract := &models.PlaylistExtract{
		Meta: parseMeta(doc, pageURL),
	}
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= models.MaxTracks {
			return false
		}
		extract.Tracks = append(extract.Tracks, parseTrackRow(row, i+1))
		return true
	})

	return extract, nil
}

func parseMeta(doc *goquery.Document, pageURL string) models.PlaylistMeta {
	meta := models.PlaylistMeta{ExternalURL: pageURL}

	name := strings.TrimSpace(doc.Find("h1[data-testid='entityTitle']").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if name == "" {
		name = "Unknown Playlist"
	}
	meta.Name = name
	meta.Description = strings.TrimSpace(doc.Find("span[data-testid='playlist-description']").First().Text())

	body := doc.Text()
	meta.Followers = matchCount(saveRegex, body)
	meta.TotalTracks = matchCount(songRegex, body)

	return meta
}

func matchCount(re *regexp.Regexp, text string) int {
	match := re.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// parseTrackRow extracts one track from a tracklist row. Popularity, release
// year and audio features are not present in the public markup; those fields
// stay empty here and the normalizer fills them with the absent sentinel.
func parseTrackRow(row *goquery.Selection, position int) models.TrackRecord {
	record := models.TrackRecord{Position: position}

	name := strings.TrimSpace(row.Find("div[data-testid='tracklist-row-title']").First().Text())
	if name == "" {
		name = strings.TrimSpace(row.Find("a[href*='/track/']").First().Text())
	}
	if name == "" {
		name = fmt.Sprintf("Track %d", position)
	}
	record.Name = name

	var artists []string
	row.Find("a[href*='/artist/']").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			artists = append(artists, text)
		}
	})
	record.Artists = models.JoinArtists(artists)

	album := strings.TrimSpace(row.Find("a[href*='/album/']").First().Text())
	if album == "" {
		album = "Unknown Album"
	}
	record.Album = album

	// The duration renders in the last cell of the row, so take the last
	// m:ss token; a time-like track title must not win.
	if matches := durationRegex.FindAllStringSubmatch(row.Text(), -1); len(matches) > 0 {
		match := matches[len(matches)-1]
		minutes, _ := strconv.Atoi(match[1])
		seconds, _ := strconv.Atoi(match[2])
		record.DurationMS = (minutes*60 + seconds) * 1000
	}

	return record
}
