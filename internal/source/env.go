package source

import (
	"context"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
)

// Env serves URLs taken from URL_1, URL_2, ... variables. They always belong to
// the primary group.
type Env struct {
	urls []string
}

func NewEnv(urls []string) *Env {
	return &Env{urls: urls}
}

func (e *Env) Name() string {
	return "env"
}

func (e *Env) Load(_ context.Context, group entity.GroupID) []string {
	if group != entity.GroupPrimary {
		return nil
	}
	return append([]string(nil), e.urls...)
}
