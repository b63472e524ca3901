package console

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/config"
	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/keepalive"
	"github.com/Dreaeast/worker-keep-online/internal/policy"
	"github.com/Dreaeast/worker-keep-online/internal/visitor"
)

type KeepaliveRunCommand struct {
	conf *config.Config
	now  func() time.Time
}

func NewKeepaliveRunCommand() *KeepaliveRunCommand {
	cmd := KeepaliveRunCommand{now: time.Now}
	return &cmd
}

func (cmd *KeepaliveRunCommand) Name() string {
	return "keepalive:run"
}

func (cmd *KeepaliveRunCommand) Description() string {
	return "visits every URL group once, honouring the suppression windows"
}

// Run always succeeds: every problem is logged and reported instead.
func (cmd *KeepaliveRunCommand) Run() error {
	conf := cmd.conf
	if conf == nil {
		conf = config.GetConfig()
	}
	cmd.execute(context.Background(), conf)
	return nil
}

func (cmd *KeepaliveRunCommand) execute(ctx context.Context, conf *config.Config) (report *entity.Report) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("keep-alive run aborted", "error", r)
		}
	}()

	location := policy.LoadLocation(conf.Timezone)
	hour := policy.CurrentHour(cmd.now(), location)

	groups := newLoader(conf).LoadGroups(ctx)
	v := visitor.New(visitor.Config{
		Timeout:    conf.RequestTimeout,
		MaxRetries: conf.MaxRetries,
	})
	orchestrator := keepalive.New(v, keepalive.Options{
		Groups:       groups,
		Windows:      conf.Windows,
		PlatformURLs: conf.PlatformURLs,
		WaitMin:      conf.WaitMin,
		WaitMax:      conf.WaitMax,
		Notifier:     newNotifier(conf, location),
	})

	return orchestrator.Run(ctx, hour)
}
