package console

import (
	"log/slog"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/bot"
	"github.com/Dreaeast/worker-keep-online/internal/config"
	"github.com/Dreaeast/worker-keep-online/internal/notifier"
	"github.com/Dreaeast/worker-keep-online/internal/source"
	"github.com/Dreaeast/worker-keep-online/internal/storage"
)

// newLoader assembles the URL sources: GitHub when a repository is set,
// local files otherwise, then the database and the URL_n variables.
func newLoader(conf *config.Config) *source.Loader {
	var sources []source.Source
	if conf.GitHubRepo != "" {
		sources = append(sources, source.NewGitHub(conf.GitHubRepo, conf.GitHubBranch, conf.GitHubToken,
			source.RepoPaths(conf.Files)))
	} else {
		sources = append(sources, source.NewFile(conf.Files))
	}
	if conf.DbConnectionString != "" {
		sources = append(sources, source.NewDatabase(storage.NewManager(conf.DbConnectionString)))
	}
	sources = append(sources, source.NewEnv(conf.EnvURLs))
	return source.NewLoader(sources...)
}

// newNotifier returns a disabled notifier when Telegram is not configured or
// the bot cannot be created.
func newNotifier(conf *config.Config, location *time.Location) *notifier.Notifier {
	if !conf.TelegramEnabled() {
		return notifier.New(nil, location, false)
	}
	dispatcher, err := bot.CreateBot(conf.BotToken, conf.NotificationChatID)
	if err != nil {
		slog.Error("telegram notifications disabled", "error", err)
		return notifier.New(nil, location, false)
	}
	return notifier.New(dispatcher, location, conf.SendSummary)
}
