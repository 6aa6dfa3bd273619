package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	global = zap.NewNop()
)

// Init builds the process logger (production encoder unless dev) and installs
// it as the package global.
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	mu.Lock()
	global = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	return l, nil
}

func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return global
}

func Sync() { _ = L().Sync() }
