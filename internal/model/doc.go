// Package model defines the core data structures used throughout
// the magnus-downloader application.
//
// # Episode
//
// Episode represents one downloadable feed entry with its computed file path:
//
//	ep := model.NewEpisode("MAG", "MAG 7", enclosureURL, 7, pubDate, 0, namingCfg)
//	fmt.Println(ep.Path) // Where the episode will be saved
//
// # Series
//
// Series is the pattern configuration that recognizes a show's episodes
// inside a mixed feed and extracts their episode numbers:
//
//	s := model.Series{Name: "MAG", Pattern: `MAG (\d+)`}
//	matcher, err := s.Matcher()
//	number, ok := matcher.Match("MAG 101") // 101, true
//
// # Naming Configuration
//
// NamingConfig controls how episode file paths are computed using placeholders:
//
//	cfg := &model.NamingConfig{
//	    DownloadsPath:  "Downloads",
//	    FileNameFormat: "{title}.mp3",
//	}
//
// Available placeholders: {title}, {number}, {series}
package model
