package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	return NewZerolog(consoleWriter, level)
}

// New picks the JSON or console encoder.
func New(level zerolog.Level, json bool) *ZerologAdapter {
	if json {
		return NewZerolog(os.Stderr, level)
	}
	return NewConsoleLogger(level)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	z.write(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	z.write(z.logger.Error().Err(err), component, fields).Msg("operation failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	z.write(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	z.write(z.logger.Debug(), component, fields).Msg(message)
}

func (z *ZerologAdapter) write(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	event = event.Str("component", component)
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	return event
}
