package log

import (
	"fmt"

	"github.com/rs/zerolog"
)

// GormWriter adapts a zerolog logger to gorm's logger.Writer.
type GormWriter struct {
	Logger zerolog.Logger
}

func (w GormWriter) Printf(format string, args ...interface{}) {
	w.Logger.Warn().Str("source", "gorm").Msg(fmt.Sprintf(format, args...))
}
