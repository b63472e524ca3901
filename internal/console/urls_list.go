package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/config"
	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/policy"
)

type UrlsListCommand struct {
	conf *config.Config
	now  func() time.Time
	out  io.Writer
}

func NewUrlsListCommand() *UrlsListCommand {
	cmd := UrlsListCommand{now: time.Now, out: os.Stdout}
	return &cmd
}

func (cmd *UrlsListCommand) Name() string {
	return "urls:list"
}

func (cmd *UrlsListCommand) Description() string {
	return "prints the URL groups in visit order without requesting them"
}

func (cmd *UrlsListCommand) Run() error {
	conf := cmd.conf
	if conf == nil {
		conf = config.GetConfig()
	}

	location := policy.LoadLocation(conf.Timezone)
	hour := policy.CurrentHour(cmd.now(), location)
	groups := newLoader(conf).LoadGroups(context.Background())

	fmt.Fprintf(cmd.out, "Hour %d (%s)\n", hour, location)
	for _, group := range entity.VisitOrder {
		urls := groups[group]
		if group == entity.GroupPrimary {
			urls = append(append([]string(nil), conf.PlatformURLs...), urls...)
			fmt.Fprintf(cmd.out, "%s: always, %d urls\n", group, len(urls))
		} else {
			window := conf.Windows[group]
			state := "active"
			if policy.IsSuppressed(hour, window) {
				state = "suppressed"
			}
			fmt.Fprintf(cmd.out, "%s: window %s, %s, %d urls\n", group, window, state, len(urls))
		}
		for _, u := range urls {
			fmt.Fprintf(cmd.out, "\t%s\n", u)
		}
	}
	return nil
}
