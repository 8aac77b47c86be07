package jwtauth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideAuthenticator builds an Authenticator from the environment.
func ProvideAuthenticator(log *zap.Logger) *Authenticator {
	return New(ConfigFromEnv(), log)
}

var Module = fx.Options(
	fx.Provide(ProvideAuthenticator),
)
