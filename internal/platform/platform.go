// Package platform turns hosting-provider environment variables into URLs of
// the service itself, so a deployment keeps its own instance awake.
package platform

import (
	"log/slog"
	"strings"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Rule builds one URL when every variable in Require is present and non-empty.
type Rule struct {
	Name    string
	Require []string
	Build   func(values map[string]string) string
}

// DefaultRules in evaluation order.
var DefaultRules = []Rule{
	{
		Name:    "huggingface",
		Require: []string{"SPACE_HOST"},
		Build:   func(v map[string]string) string { return "https://" + v["SPACE_HOST"] },
	},
	{
		Name:    "render",
		Require: []string{"RENDER_EXTERNAL_URL"},
		Build:   func(v map[string]string) string { return v["RENDER_EXTERNAL_URL"] },
	},
	{
		Name:    "koyeb",
		Require: []string{"KOYEB_PUBLIC_DOMAIN"},
		Build:   func(v map[string]string) string { return "https://" + v["KOYEB_PUBLIC_DOMAIN"] },
	},
	{
		Name:    "workspace",
		Require: []string{"WORKSPACE_DEV_DOMAIN"},
		Build:   func(v map[string]string) string { return "https://" + v["WORKSPACE_DEV_DOMAIN"] },
	},
	{
		Name:    "codesandbox",
		Require: []string{"CSB_BASE_PREVIEW_HOST", "CSB_SANDBOX_ID", "PORT"},
		Build: func(v map[string]string) string {
			return "https://" + v["CSB_SANDBOX_ID"] + "-" + v["PORT"] + "." + v["CSB_BASE_PREVIEW_HOST"]
		},
	},
}

// URLs evaluates rules once, in order.
func URLs(rules []Rule, lookup LookupFunc) []string {
	var urls []string
	for _, rule := range rules {
		values, ok := collect(rule.Require, lookup)
		if !ok {
			continue
		}
		u := strings.TrimSpace(rule.Build(values))
		slog.Debug("platform url detected", "platform", rule.Name, "url", u)
		urls = append(urls, u)
	}
	return urls
}

func collect(keys []string, lookup LookupFunc) (map[string]string, bool) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return nil, false
		}
		values[key] = value
	}
	return values, true
}
