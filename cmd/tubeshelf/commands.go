package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/library"
	"github.com/mmcdole/tubeshelf/internal/tui/styles"
)

const requestTimeout = 30 * time.Second

// runCommand executes one non-interactive command
func (a *app) runCommand(ctx context.Context, name string, args []string, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch name {
	case "list":
		return a.cmdList(ctx, args, out)
	case "search":
		return a.cmdSearch(ctx, args, out)
	case "save":
		return a.cmdSave(ctx, args, out)
	case "watch":
		return a.cmdWatch(args, out)
	case "remove":
		return a.cmdRemove(args, out)
	case "play":
		return a.cmdPlay(args, out)
	case "clear":
		return a.cmdClear(args, out)
	case "history":
		return a.cmdHistory(args, out)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// videoID returns the single id argument of a command
func videoID(name string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("usage: tubeshelf %s <id>", name)
	}
	return strings.TrimSpace(args[0]), nil
}

func (a *app) cmdList(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("list", out)
	filterName := fs.String("filter", domain.FilterAll.String(), "all, watch-later or watched")
	query := fs.String("query", "", "fuzzy filter on title and channel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter, err := domain.ParseWatchFilter(*filterName)
	if err != nil {
		return err
	}

	if _, err := a.library.Restore(ctx); err != nil {
		// Placeholders are still listed by id
		writeln(out, "warning: %v", err)
	}

	entries := a.library.List(filter, *query)
	if len(entries) == 0 {
		writeln(out, "%s no saved video", library.EmptyFace())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		writeVideo(tw, e.Video, true)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	saved, limit := a.library.Count()
	writeln(out, "%d/%d saved", saved, limit)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("search", out)
	pages := fs.Int("pages", 1, "number of result pages to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return errors.New("usage: tubeshelf search [--pages n] <query>")
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fetched, count := 0, 0
	for page, err := range a.pager.Pages(ctx, query) {
		if err != nil {
			tw.Flush()
			return err
		}
		for _, v := range page.Items {
			saved, _ := a.pager.Status(v.ID)
			writeVideo(tw, v, saved)
			count++
		}
		fetched++
		if fetched >= *pages {
			break
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if count == 0 {
		writeln(out, "no results for %q", query)
	}
	return nil
}

func (a *app) cmdSave(ctx context.Context, args []string, out io.Writer) error {
	id, err := videoID("save", args)
	if err != nil {
		return err
	}

	video, err := a.library.Save(ctx, id)
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		saved, limit := a.library.Count()
		return fmt.Errorf("saved list is full (%d/%d), remove a video first", saved, limit)
	case errors.Is(err, domain.ErrSourceUnavailable):
		writeln(out, "saved %s (details unavailable: %v)", id, err)
		return nil
	case err != nil:
		return err
	}

	writeln(out, "saved %s  %s", video.ID, video.Title)
	return nil
}

func (a *app) cmdWatch(args []string, out io.Writer) error {
	id, err := videoID("watch", args)
	if err != nil {
		return err
	}

	watched, err := a.library.ToggleWatched(id)
	if err != nil {
		return err
	}

	status := "unwatched"
	if watched {
		status = "watched"
	}
	writeln(out, "%s %s", id, status)
	return nil
}

func (a *app) cmdRemove(args []string, out io.Writer) error {
	id, err := videoID("remove", args)
	if err != nil {
		return err
	}

	if saved, _ := a.library.Status(id); !saved {
		return &domain.CacheError{Op: "remove", ID: id, Err: domain.ErrVideoNotFound}
	}
	if err := a.library.Remove(id); err != nil {
		return err
	}

	writeln(out, "removed %s", id)
	return nil
}

func (a *app) cmdPlay(args []string, out io.Writer) error {
	id, err := videoID("play", args)
	if err != nil {
		return err
	}

	video := domain.Video{ID: id}
	if err := a.launcher.Play(video); err != nil {
		return err
	}

	writeln(out, "playing %s", video.WatchURL())
	return nil
}

func (a *app) cmdClear(args []string, out io.Writer) error {
	if len(args) != 0 {
		return errors.New("usage: tubeshelf clear")
	}
	if err := a.library.Clear(); err != nil {
		return err
	}

	writeln(out, "cleared saved videos")
	return nil
}

func (a *app) cmdHistory(args []string, out io.Writer) error {
	fs := newFlagSet("history", out)
	forget := fs.Bool("clear", false, "forget recent keywords")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *forget {
		if err := a.history.Clear(); err != nil {
			return err
		}
		writeln(out, "cleared search history")
		return nil
	}

	for _, k := range a.history.Keywords() {
		writeln(out, "%s", k)
	}
	return nil
}

// writeVideo writes one tab-separated video row
func writeVideo(w io.Writer, v domain.Video, saved bool) {
	mark := " "
	if saved {
		mark, _ = styles.WatchIndicator(v.WatchStatus())
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, v.ID, v.Title, v.ChannelTitle, v.PublishedAt)
}
