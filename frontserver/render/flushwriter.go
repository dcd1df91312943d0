package render

import (
	"net/http"
)

// FlushWriter is a ResponseWriter that pushes every successful write to the
// client right away.
type FlushWriter interface {
	http.ResponseWriter
	http.Flusher
}

// TryFlushWriter wraps w. Writers that cannot flush are still written to;
// Flush is then a no-op.
func TryFlushWriter(w http.ResponseWriter) FlushWriter {
	if fw, ok := w.(flushWriter); ok {
		return fw
	}

	var fw = flushWriter{ResponseWriter: w}
	if f, ok := w.(http.Flusher); ok {
		fw.flusher = f
	}
	return fw
}

type flushWriter struct {
	http.ResponseWriter
	flusher http.Flusher
}

func (fw flushWriter) Write(b []byte) (int, error) {
	n, err := fw.ResponseWriter.Write(b)
	if err == nil {
		fw.Flush()
	}
	return n, err
}

func (fw flushWriter) Flush() {
	if fw.flusher != nil {
		fw.flusher.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (fw flushWriter) Unwrap() http.ResponseWriter {
	return fw.ResponseWriter
}
