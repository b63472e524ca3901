// Package keepalive walks the URL groups in a fixed order and visits them.
package keepalive

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/policy"
)

const (
	primaryWait = time.Second
	waitUnit    = time.Second
)

// Visitor visits a single URL and then waits.
type Visitor interface {
	Visit(ctx context.Context, rawURL string, wait time.Duration) entity.Outcome
}

// Notifier receives problem outcomes and the final report.
type Notifier interface {
	Alert(outcome entity.Outcome)
	Summary(report *entity.Report)
}

type Options struct {
	Groups       map[entity.GroupID][]string
	Windows      map[entity.GroupID]policy.Window
	PlatformURLs []string
	// WaitMin and WaitMax bound the wait after each secondary URL, in seconds.
	WaitMin  int
	WaitMax  int
	Notifier Notifier
}

type Orchestrator struct {
	visitor      Visitor
	notifier     Notifier
	groups       map[entity.GroupID][]string
	windows      map[entity.GroupID]policy.Window
	platformURLs []string
	waitMin      int
	waitMax      int
	intN         func(n int) int
}

func New(visitor Visitor, opts Options) *Orchestrator {
	if opts.WaitMax < opts.WaitMin {
		opts.WaitMax = opts.WaitMin
	}
	return &Orchestrator{
		visitor:      visitor,
		notifier:     opts.Notifier,
		groups:       opts.Groups,
		windows:      opts.Windows,
		platformURLs: append([]string(nil), opts.PlatformURLs...),
		waitMin:      opts.WaitMin,
		waitMax:      opts.WaitMax,
		intN:         rand.IntN,
	}
}

// Run processes every group once for the given local hour. It never fails:
// problems are logged, counted in the report and passed to the notifier.
func (o *Orchestrator) Run(ctx context.Context, hour int) *entity.Report {
	report := entity.NewReport(hour)
	slog.Info("keep-alive run started", "hour", hour)

	for _, group := range entity.VisitOrder {
		o.processGroup(ctx, group, hour, report)
	}

	total := report.Totals()
	slog.Info("keep-alive run finished",
		"urls", total.URLs,
		"visited", total.Visited,
		"invalid", total.Invalid,
		"failed", total.Failed,
		"problems", total.Problems)

	if o.notifier != nil {
		o.notifier.Summary(report)
	}
	return report
}

func (o *Orchestrator) processGroup(ctx context.Context, group entity.GroupID, hour int, report *entity.Report) {
	gr := report.Group(group)
	defer func() {
		if r := recover(); r != nil {
			gr.Aborted = true
			slog.Error("group processing aborted", "group", group,
				"error", fmt.Errorf("%w: %v", entity.ErrUnexpected, r))
		}
	}()

	if group != entity.GroupPrimary && policy.IsSuppressed(hour, o.windows[group]) {
		gr.Suppressed = true
		return
	}

	urls := o.groupURLs(group)
	gr.URLs = len(urls)
	slog.Debug("processing group", "group", group, "urls_count", len(urls))

	for _, u := range urls {
		outcome := o.visitor.Visit(ctx, u, o.wait(group))
		report.Add(group, outcome)
		if outcome.Problem() && o.notifier != nil {
			o.notifier.Alert(outcome)
		}
	}
}

// groupURLs returns the list to visit; platform URLs lead the primary group.
func (o *Orchestrator) groupURLs(group entity.GroupID) []string {
	if group != entity.GroupPrimary {
		return o.groups[group]
	}
	urls := make([]string, 0, len(o.platformURLs)+len(o.groups[group]))
	urls = append(urls, o.platformURLs...)
	return append(urls, o.groups[group]...)
}

// wait is fixed for the primary group and drawn from [waitMin, waitMax]
// seconds otherwise.
func (o *Orchestrator) wait(group entity.GroupID) time.Duration {
	if group == entity.GroupPrimary {
		return primaryWait
	}
	seconds := o.waitMin + o.intN(o.waitMax-o.waitMin+1)
	return time.Duration(seconds) * waitUnit
}
