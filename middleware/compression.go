package middleware

import (
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// brotliWriter starts compressing on the first body write, so responses
// without a body (204s, aborted requests) go out without Content-Encoding.
type brotliWriter struct {
	gin.ResponseWriter
	level  int
	writer *brotli.Writer
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	if w.writer == nil {
		w.Header().Set("Content-Encoding", "br")
		w.Header().Del("Content-Length")
		w.writer = brotli.NewWriterLevel(w.ResponseWriter, w.level)
	}
	return w.writer.Write(data)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *brotliWriter) Close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

// BrotliCompression compresses responses for clients that accept "br".
// Chunk lists for large documents compress well.
func BrotliCompression(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsBrotli(c.GetHeader("Accept-Encoding")) || c.Request.Method == "HEAD" {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{ResponseWriter: c.Writer, level: level}
		c.Writer = bw
		defer bw.Close()

		c.Next()
	}
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		if strings.TrimSpace(fields[0]) != "br" {
			continue
		}
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if strings.HasPrefix(param, "q=") {
				if q, err := strconv.ParseFloat(param[2:], 64); err == nil && q == 0 {
					return false
				}
			}
		}
		return true
	}
	return false
}
