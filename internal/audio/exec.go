package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

var commandContext = exec.CommandContext

// ErrExternalTool is returned when the id3v2 command-line tool cannot
// be run or exits with a failure.
//
// This typically occurs when:
//   - The binary is not installed or not on PATH
//   - The tool rejects the file (not an MP3, permission denied)
//
// Tagging failures are not fatal: the download itself succeeded, so the
// caller reports the error and keeps going.
var ErrExternalTool = errors.New("external tool failure")

// CommandTagger writes track metadata by invoking the id3v2
// command-line tool.
//
// The tool is run once per episode with an explicit argument vector, so
// titles containing quotes, spaces, or shell metacharacters are passed
// through verbatim. A "--" separator precedes the file path to keep
// paths starting with "-" from being read as flags.
//
// CommandTagger cannot embed cover art; the artwork argument to Tag is
// ignored. Use NativeTagger when cover art embedding is wanted.
//
// Example:
//
//	tagger := NewCommandTagger("id3v2", DefaultTagConfig())
//	if err := tagger.Tag(ctx, episode, nil); err != nil {
//	    log.Printf("Failed to tag %s: %v", episode.Path, err)
//	}
type CommandTagger struct {
	binary string
	config *TagConfig
}

// NewCommandTagger creates a CommandTagger invoking the given binary.
//
// If binary is empty, "id3v2" is resolved from PATH. If config is nil,
// DefaultTagConfig() is used.
func NewCommandTagger(binary string, config *TagConfig) *CommandTagger {
	if binary == "" {
		binary = "id3v2"
	}
	if config == nil {
		config = DefaultTagConfig()
	}
	return &CommandTagger{
		binary: binary,
		config: config,
	}
}

// Tag runs the id3v2 tool against the episode's downloaded file.
//
// Returns an error wrapping ErrExternalTool if the tool cannot be
// started or exits non-zero; the tool's combined output is included in
// the error message. Does nothing when tag modification is disabled.
func (t *CommandTagger) Tag(ctx context.Context, episode *model.Episode, _ []byte) error {
	if !t.config.ModifyTags {
		return nil
	}

	cmd := commandContext(ctx, t.binary, t.buildArgs(episode)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrExternalTool, t.binary, err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrExternalTool, t.binary, err)
	}

	return nil
}

// buildArgs assembles the argument vector for one episode.
//
// Episode data is never interpolated into a shell command line; each
// value is its own argv element.
func (t *CommandTagger) buildArgs(episode *model.Episode) []string {
	var args []string

	if t.config.TrackNumber == TagModify {
		args = append(args, "--track", strconv.Itoa(episode.Number))
	}
	if t.config.TrackTitle == TagModify {
		args = append(args, "--song", episode.Title)
	}
	if t.config.Album == TagModify {
		args = append(args, "--album", episode.Series)
	}
	if t.config.Year == TagModify && !episode.Published.IsZero() {
		args = append(args, "--year", episode.Published.Format("2006"))
	}

	return append(args, "--", episode.Path)
}

var _ Tagger = (*CommandTagger)(nil)
