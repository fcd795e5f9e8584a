package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// TestHelperProcess stands in for the id3v2 binary in CommandTagger
// tests. It is not a real test.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("TAGGER_HELPER_MODE") == "fail" {
		fmt.Fprintln(os.Stderr, "id3v2: unable to open tag")
		os.Exit(1)
	}
	os.Exit(0)
}

func setHelperCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string{name}, args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "TAGGER_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func execTestEpisode(title string) *model.Episode {
	naming := &model.NamingConfig{
		DownloadsPath:  "Downloads",
		FileNameFormat: "{title}.mp3",
	}
	published := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	return model.NewEpisode("MAG", title, "https://cdn.example.com/7.mp3", 7, published, 1000, naming)
}

func TestCommandTagger_BuildArgs(t *testing.T) {
	// A title full of shell metacharacters must stay a single argv
	// element, never interpreted.
	episode := execTestEpisode(`MAG 7; rm -rf ~ && echo "pwned"`)

	tagger := NewCommandTagger("id3v2", DefaultTagConfig())
	got := tagger.buildArgs(episode)

	want := []string{
		"--track", "7",
		"--song", `MAG 7; rm -rf ~ && echo "pwned"`,
		"--album", "MAG",
		"--year", "2023",
		"--", episode.Path,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildArgs() = %q, want %q", got, want)
	}
}

func TestCommandTagger_BuildArgsMinimal(t *testing.T) {
	episode := execTestEpisode("MAG 7")
	episode.Published = time.Time{}

	cfg := &TagConfig{
		ModifyTags:  true,
		TrackNumber: TagModify,
		TrackTitle:  TagModify,
		Album:       TagDoNotModify,
		Year:        TagModify, // skipped: publication date unknown
	}
	tagger := NewCommandTagger("id3v2", cfg)
	got := tagger.buildArgs(episode)

	want := []string{"--track", "7", "--song", "MAG 7", "--", episode.Path}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildArgs() = %q, want %q", got, want)
	}
}

func TestCommandTagger_Tag(t *testing.T) {
	var captured []string
	setHelperCommand(t, "success", &captured)

	episode := execTestEpisode("MAG 7")
	tagger := NewCommandTagger("", nil)

	if err := tagger.Tag(context.Background(), episode, nil); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	if len(captured) == 0 {
		t.Fatal("Tag() never invoked the external tool")
	}
	if captured[0] != "id3v2" {
		t.Errorf("binary = %q, want %q", captured[0], "id3v2")
	}
	if captured[len(captured)-1] != episode.Path {
		t.Errorf("last argument = %q, want file path %q", captured[len(captured)-1], episode.Path)
	}
	if captured[len(captured)-2] != "--" {
		t.Errorf("argument before path = %q, want %q", captured[len(captured)-2], "--")
	}
}

func TestCommandTagger_TagFailure(t *testing.T) {
	setHelperCommand(t, "fail", nil)

	episode := execTestEpisode("MAG 7")
	tagger := NewCommandTagger("id3v2", nil)

	err := tagger.Tag(context.Background(), episode, nil)
	if err == nil {
		t.Fatal("Tag() expected error for failing tool")
	}
	if !errors.Is(err, ErrExternalTool) {
		t.Errorf("Tag() error = %v, want ErrExternalTool", err)
	}
	if !strings.Contains(err.Error(), "unable to open tag") {
		t.Errorf("Tag() error %q missing tool output", err)
	}
}

func TestCommandTagger_TagDisabled(t *testing.T) {
	var captured []string
	setHelperCommand(t, "success", &captured)

	episode := execTestEpisode("MAG 7")
	tagger := NewCommandTagger("id3v2", &TagConfig{ModifyTags: false})

	if err := tagger.Tag(context.Background(), episode, nil); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if len(captured) != 0 {
		t.Errorf("Tag() invoked the external tool despite tagging being disabled: %q", captured)
	}
}
