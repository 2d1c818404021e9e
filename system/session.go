package system

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/molcraft/engine"
	"github.com/lixenwraith/molcraft/event"
	"github.com/lixenwraith/molcraft/molecule"
)

// Session is the ephemeral record of one exclusive interaction process
// Created by the coordinator on process start and discarded on reset
type Session struct {
	ID      uuid.UUID
	Kind    event.ProcessKind
	Channel event.Channel
	Started uint64
}

func newSession(kind event.ProcessKind, tick uint64) *Session {
	return &Session{ID: uuid.New(), Kind: kind, Started: tick}
}

// reportError logs a locally handled taxonomy error and counts it
func reportError(w *engine.World, logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	kind := molecule.KindOf(err)
	logger.Warn(msg, append(fields, zap.Stringer("kind", kind), zap.Error(err))...)
	w.Metrics.IncError(kind.String())
}
