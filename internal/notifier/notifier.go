// Package notifier formats run events as HTML messages for a dispatcher.
package notifier

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
)

// messageLimit keeps every part under Telegram's 4096 character cap.
const messageLimit = 4000

const timestampLayout = "2006/1/2 15:04:05"

type Notifier struct {
	dispatcher entity.MessageDispatcher
	location   *time.Location
	summary    bool
	now        func() time.Time
}

// New returns a notifier sending through dispatcher. A nil dispatcher
// disables notifications.
func New(dispatcher entity.MessageDispatcher, location *time.Location, summary bool) *Notifier {
	if location == nil {
		location = time.UTC
	}
	return &Notifier{
		dispatcher: dispatcher,
		location:   location,
		summary:    summary,
		now:        time.Now,
	}
}

func (n *Notifier) Enabled() bool {
	return n.dispatcher != nil
}

// Alert reports a failed visit or a response other than 200.
func (n *Notifier) Alert(outcome entity.Outcome) {
	if !n.Enabled() || !outcome.Problem() {
		return
	}
	n.send("alert", []string{FormatAlert(outcome, n.timestamp())})
}

// Summary reports the run totals when summaries are switched on.
func (n *Notifier) Summary(report *entity.Report) {
	if !n.Enabled() || !n.summary {
		return
	}
	n.send("summary", FormatSummary(report, n.timestamp()))
}

func (n *Notifier) send(kind string, parts []string) {
	if err := n.dispatcher.Send(parts); err != nil {
		slog.Error("notification not delivered", "kind", kind, "error", err)
		return
	}
	slog.Debug("notification delivered", "kind", kind, "parts_count", len(parts))
}

func (n *Notifier) timestamp() string {
	return n.now().In(n.location).Format(timestampLayout)
}

func FormatAlert(outcome entity.Outcome, timestamp string) string {
	if outcome.Kind == entity.OutcomeFailed {
		return fmt.Sprintf("<b>Keep-alive Log:</b> %s\n<b>Access Error:</b> %s\n<b>Error Message:</b> %s",
			timestamp, html.EscapeString(outcome.URL), html.EscapeString(errorText(outcome.Err)))
	}
	return fmt.Sprintf("<b>Keep-alive Log:</b> %s\n<b>Access Failed:</b> %s\n<b>Status Code:</b> %d",
		timestamp, html.EscapeString(outcome.URL), outcome.StatusCode)
}

// FormatSummary renders one line per group and splits the text into parts
// that fit a single message.
func FormatSummary(report *entity.Report, timestamp string) []string {
	var result []string

	total := report.Totals()
	slice := fmt.Sprintf("<b>Keep-alive Summary:</b> %s\n<b>Hour:</b> %d\n<b>Visited:</b> %d, <b>problems:</b> %d, <b>invalid:</b> %d",
		timestamp, report.Hour, total.Visited, total.Problems, total.Invalid)
	records := make([]string, 0, len(report.Groups)+1)
	for _, g := range report.Groups {
		switch {
		case g.Suppressed:
			records = append(records, fmt.Sprintf("🔸 %s: suppressed", g.Group))
		case g.Aborted:
			records = append(records, fmt.Sprintf("🔸 %s: aborted after %d/%d", g.Group, g.Visited+g.Failed+g.Invalid, g.URLs))
		default:
			records = append(records, fmt.Sprintf("🔸 %s: %d/%d visited, %d failed, %d invalid", g.Group, g.Visited, g.URLs, g.Failed, g.Invalid))
		}
	}
	records = append(records, "<b>Task completed</b>")

	for _, record := range records {
		if len(slice)+len(record)+1 > messageLimit {
			result = append(result, slice)
			slice = ""
		}
		slice += "\n" + record
	}
	if len(strings.Trim(slice, " \n\r\t")) > 0 {
		result = append(result, slice)
	}

	return result
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
