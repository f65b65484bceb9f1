package badger

import (
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// badgerLoggerAdapter routes badger's own logging into zap, with info demoted to debug.
type badgerLoggerAdapter struct {
	logger *zap.Logger
}

var _ badgerdb.Logger = (*badgerLoggerAdapter)(nil)

func (b *badgerLoggerAdapter) Errorf(format string, args ...interface{}) {
	b.logger.Sugar().Errorf("badger: "+format, args...)
}

func (b *badgerLoggerAdapter) Warningf(format string, args ...interface{}) {
	b.logger.Sugar().Warnf("badger: "+format, args...)
}

func (b *badgerLoggerAdapter) Infof(format string, args ...interface{}) {
	b.logger.Sugar().Debugf("badger: "+format, args...)
}

func (b *badgerLoggerAdapter) Debugf(format string, args ...interface{}) {
	b.logger.Sugar().Debugf("badger: "+format, args...)
}
