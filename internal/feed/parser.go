package feed

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// ErrParse is returned when the feed document cannot be parsed.
//
// This typically occurs when:
//   - The URL did not serve an RSS document at all (e.g. an HTML error page)
//   - The XML is truncated or malformed
//
// A parse failure is not fatal to the caller: the pipeline treats it as
// "nothing found" and continues.
var ErrParse = errors.New("feed parse error")

// Parser extracts episode information from podcast RSS documents.
//
// The same raw document is parsed once per series: each Parse call walks
// every feed item, keeps the ones whose title matches the series pattern,
// and drops the rest. Items without a media enclosure are skipped since
// there is nothing to download.
//
// Example usage:
//
//	parser := NewParser(namingCfg)
//
//	matcher, _ := model.Series{Name: "MAG", Pattern: `MAG (\d+)`}.Matcher()
//	episodes, err := parser.Parse(matcher, xmlData)
//	if err != nil {
//	    log.Printf("feed unusable: %v", err)
//	}
//	for _, ep := range episodes {
//	    fmt.Printf("%d. %s\n", ep.Number, ep.Title)
//	}
type Parser struct {
	naming *model.NamingConfig
	fp     *gofeed.Parser
}

// NewParser creates a new Parser with the given naming configuration.
//
// The naming configuration is used to compute the destination file path
// of every episode the parser emits.
func NewParser(naming *model.NamingConfig) *Parser {
	return &Parser{
		naming: naming,
		fp:     gofeed.NewParser(),
	}
}

// Parse extracts one series' episodes from raw feed XML.
//
// For each feed item the title is matched against the series pattern;
// matching items become Episodes carrying the parsed episode number, the
// enclosure URL, and the computed destination path. Items that do not
// match, have no numeric capture, or carry no enclosure are excluded.
//
// The returned episodes are in feed order. Use Sequence to sort them by
// episode number.
//
// A document that cannot be parsed at all yields a nil slice and an
// error wrapping ErrParse; the caller reports it and moves on.
func (p *Parser) Parse(matcher *model.SeriesMatcher, xml string) ([]*model.Episode, error) {
	parsed, err := p.fp.ParseString(xml)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	series := matcher.Series()

	var episodes []*model.Episode
	for _, item := range parsed.Items {
		if len(item.Enclosures) == 0 {
			continue
		}
		enclosure := item.Enclosures[0]
		if enclosure.URL == "" {
			continue
		}

		number, ok := matcher.Match(item.Title)
		if !ok {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		length, _ := strconv.ParseInt(enclosure.Length, 10, 64)
		if length < 0 {
			length = 0
		}

		episodes = append(episodes, model.NewEpisode(series.Name, item.Title, enclosure.URL, number, published, length, p.naming))
	}

	return episodes, nil
}

// Channel holds feed-level metadata used for cover art and the local
// feed export.
type Channel struct {
	// Title is the feed title.
	Title string

	// Link is the channel's website link.
	Link string

	// ImageURL is the channel artwork URL, or empty when the feed
	// carries none.
	ImageURL string
}

// Channel extracts feed-level metadata from raw feed XML.
//
// The artwork URL comes from the channel <image> element, falling back
// to the itunes:image attribute common in podcast feeds.
func (p *Parser) Channel(xml string) (*Channel, error) {
	parsed, err := p.fp.ParseString(xml)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	ch := &Channel{
		Title: parsed.Title,
		Link:  parsed.Link,
	}
	if parsed.Image != nil {
		ch.ImageURL = parsed.Image.URL
	}
	if ch.ImageURL == "" && parsed.ITunesExt != nil {
		ch.ImageURL = parsed.ITunesExt.Image
	}

	return ch, nil
}
