// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-dispatch/pkg/filters/jwtauth"
	"github.com/joeydtaylor/steeze-dispatch/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-dispatch/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provided to fx
var Module = fx.Options(
	jwtauth.Module,
	logger.Module,
	metrics.Module,
)
