package log

import (
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup configures the package logger. Level falls back to info on a bad
// value; extra writers (e.g. a log file) are fanned out alongside stdout.
func Setup(level string, extra ...io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w := io.Writer(os.Stdout)
	if len(extra) > 0 {
		w = io.MultiWriter(append([]io.Writer{os.Stdout}, extra...)...)
	}
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func event(ev *zerolog.Event, c *fiber.Ctx, action string, fields map[string]any) {
	ev.Str("action", action)
	if c != nil {
		ev.Str("ip", c.IP()).Str("method", c.Method()).Str("path", c.Path())
		ev.Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev.Str("req_id", rid)
		}
	}
	for k, v := range fields {
		ev.Interface(k, v)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	event(logger.Info(), c, action, fields)
}

// Audit records a state-changing action taken by a user.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	event(logger.Info().Str("kind", "audit"), c, action, fields)
}

// Security records denied or suspicious requests.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	event(logger.Warn().Str("kind", "security"), c, action, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	event(logger.Error().Err(err), c, action, fields)
}
