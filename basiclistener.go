package main

import (
	"github.com/Unleash/unleash-client-go/v3"
	"go.uber.org/zap"
)

// BasicListener is a much less noisy version of Unleash's DebugListener
type BasicListener struct {
	logger *zap.Logger
}

func (l BasicListener) log() *zap.Logger {
	if l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}

// OnError logs errors
func (l BasicListener) OnError(err error) {
	l.log().Error("unleash error", zap.Error(err))
}

// OnWarning logs warnings at debug level
func (l BasicListener) OnWarning(warning error) {
	l.log().Debug("unleash warning", zap.Error(warning))
}

// OnReady logs when the repository is ready
func (l BasicListener) OnReady() {
	l.log().Info("unleash ready")
}

// OnCount is called when a feature is queried
func (l BasicListener) OnCount(name string, enabled bool) {
}

// OnSent is called when the client has uploaded metrics
func (l BasicListener) OnSent(payload unleash.MetricsData) {
}

// OnRegistered is called when the client has registered
func (l BasicListener) OnRegistered(payload unleash.ClientData) {
}
