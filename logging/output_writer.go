package logging

import (
	"io"

	"go.uber.org/zap/zapcore"
)

type WriteSyncer = zapcore.WriteSyncer

// Lock is a convenience function to convert from a generic golang io.Writer.
func Lock(w io.Writer) WriteSyncer {
	// Use NoOp Sync for protection.
	writer := zapcore.AddSync(w)
	return zapcore.Lock(writer)
}
