package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the command logger. Records carry a centisecond
// timestamp such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command and reports it as one structured record.
type progress struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now(), now: time.Now}
}

// done logs msg at info with keyvals and an "elapsed" field, e.g.
//
//	14:32:01.45 INFO render done job=deck.toml figures=12 elapsed=1.234s
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := p.now().Sub(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}
