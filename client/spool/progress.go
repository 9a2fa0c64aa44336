package spool

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// progressWriter logs how much content has been written, at most once
// per second.
type progressWriter struct {
	w         io.Writer
	logger    *slog.Logger
	written   int64
	total     int64
	startTime time.Time
	lastLog   time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += int64(n)

	if time.Since(pw.lastLog) >= time.Second {
		pw.lastLog = time.Now()
		pw.log("spooling")
	}

	if pw.total >= 0 && pw.written == pw.total {
		pw.log("spool complete")
	}

	return n, err
}

func (pw *progressWriter) log(msg string) {
	attrs := []any{
		"elapsed", time.Since(pw.startTime).Round(time.Millisecond),
		"written", pw.written,
		"total", pw.total,
	}
	if pw.total > 0 {
		attrs = append(attrs, "progress", fmt.Sprintf("%.1f%%", float64(pw.written)/float64(pw.total)*100))
	}
	pw.logger.Info(msg, attrs...)
}
