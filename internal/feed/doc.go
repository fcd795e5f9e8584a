// Package feed provides functionality to parse podcast RSS documents
// and extract per-series episode information.
//
// The package handles three main use cases:
//
//  1. Parsing a feed into the episodes of one series
//  2. Sorting episodes into listening order
//  3. Exporting downloaded episodes as a local RSS document
//
// # Episode Extraction
//
// Use the Parser to pull one series out of a raw feed document:
//
//	parser := feed.NewParser(namingCfg)
//
//	matcher, _ := model.Series{Name: "MAG", Pattern: `MAG (\d+)`}.Matcher()
//	episodes, err := parser.Parse(matcher, xmlData)
//	if err != nil {
//	    log.Printf("feed unusable: %v", err)
//	}
//	feed.Sequence(episodes)
//	for _, ep := range episodes {
//	    fmt.Printf("%d. %s\n", ep.Number, ep.Title)
//	}
//
// # Feed Data Format
//
// Patreon serves standard RSS 2.0 with one <item> per post. Audio posts
// carry an <enclosure> pointing at the media file; items without one are
// announcements or artwork posts and are skipped. Episode numbers are
// not a feed field, so they are recovered from the item titles via the
// series pattern.
package feed
