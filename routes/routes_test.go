package routes

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"document-chunker/internal/config"
	"document-chunker/middleware"
	"document-chunker/models"
	"document-chunker/services"
	"document-chunker/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		CORSOrigins:     []string{"*"},
		MaxFileSize:     1 << 20,
		APISecretHeader: "X-API-Secret",
		ChunkSize:       3000,
		ChunkOverlap:    300,
	}
}

func newTestRouter(cfg *config.Config, limiter *middleware.RateLimiter) *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewRouter(cfg, Dependencies{
		Logger:      logger,
		Pipeline:    services.NewPipeline(services.WithLogger(logger)),
		RateLimiter: limiter,
	})
}

type upload struct {
	field       string
	filename    string
	contentType string
	content     []byte
	fields      map[string]string
}

func newUploadRequest(t *testing.T, target string, u upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range u.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if u.field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, u.field, u.filename))
		h.Set("Content-Type", u.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(u.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// minimalDOCX builds a package holding only the main document part.
func minimalDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var xmlBody strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&xmlBody, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, xmlBody.String())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExtract_DOCXSuccess(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	w := serve(router, newUploadRequest(t, "/extract", upload{
		field:       UploadField,
		filename:    "notes.docx",
		contentType: services.MIMETypeDOCX,
		content:     minimalDOCX(t, "Hello", "world"),
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "notes.docx", resp.Filename)
	assert.Equal(t, "docx", resp.Format)
	assert.Equal(t, 11, resp.Characters)
	assert.Equal(t, 1, resp.ChunkCount)
	assert.Equal(t, []string{"Hello\nworld"}, resp.Chunks)
	assert.Nil(t, resp.ChunkDetails)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestExtract_ChunkParametersAndOffsets(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := newUploadRequest(t, "/extract?offsets=true&overlap=2", upload{
		field:       UploadField,
		filename:    "greeting.docx",
		contentType: "application/octet-stream",
		content:     minimalDOCX(t, "Hello world"),
		fields:      map[string]string{"chunk_size": "5"},
	})
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Hello", "lo wo", "world", "ld"}, resp.Chunks)
	assert.Equal(t, 4, resp.ChunkCount)
	require.Len(t, resp.ChunkDetails, 4)
	assert.Equal(t, models.Chunk{Index: 3, StartOffset: 9, EndOffset: 11, Content: "ld"}, resp.ChunkDetails[3])
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		upload   upload
		wantCode int
		wantErr  string
	}{
		{
			name:     "unsupported format",
			target:   "/extract",
			upload:   upload{field: UploadField, filename: "a.txt", contentType: "text/plain", content: []byte("hi")},
			wantCode: http.StatusBadRequest,
			wantErr:  "unsupported_format",
		},
		{
			name:     "corrupt pdf",
			target:   "/extract",
			upload:   upload{field: UploadField, filename: "broken.pdf", contentType: services.MIMETypePDF, content: []byte("not a pdf")},
			wantCode: http.StatusInternalServerError,
			wantErr:  "corrupt_document",
		},
		{
			name:     "overlap not smaller than chunk size",
			target:   "/extract?chunk_size=10&overlap=10",
			upload:   upload{field: UploadField, filename: "x.docx", contentType: services.MIMETypeDOCX, content: minimalDOCX(t, "valid")},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_configuration",
		},
		{
			name:     "corrupt document reported before bad overlap",
			target:   "/extract?chunk_size=10&overlap=10",
			upload:   upload{field: UploadField, filename: "x.docx", contentType: services.MIMETypeDOCX, content: []byte("irrelevant")},
			wantCode: http.StatusInternalServerError,
			wantErr:  "corrupt_document",
		},
		{
			name:     "non-numeric chunk size",
			target:   "/extract?chunk_size=big",
			upload:   upload{field: UploadField, filename: "x.docx", contentType: services.MIMETypeDOCX, content: []byte("irrelevant")},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_configuration",
		},
		{
			name:     "missing file field",
			target:   "/extract",
			upload:   upload{fields: map[string]string{"chunk_size": "100"}},
			wantCode: http.StatusBadRequest,
			wantErr:  "no_file",
		},
		{
			name:     "dangerous filename",
			target:   "/extract",
			upload:   upload{field: UploadField, filename: "report<1>.docx", contentType: services.MIMETypeDOCX, content: []byte("x")},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_filename",
		},
		{
			name:     "wrong field name",
			target:   "/extract",
			upload:   upload{field: "document", filename: "a.pdf", contentType: services.MIMETypePDF, content: []byte("%PDF")},
			wantCode: http.StatusBadRequest,
			wantErr:  "no_file",
		},
	}

	router := newTestRouter(testConfig(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, newUploadRequest(t, tt.target, tt.upload))

			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			var resp utils.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantErr, resp.ErrorCode)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestExtract_RequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.APISecret = "top-secret"
	router := newTestRouter(cfg, nil)
	docx := minimalDOCX(t, "secured")

	w := serve(router, newUploadRequest(t, "/extract", upload{
		field: UploadField, filename: "a.docx", contentType: services.MIMETypeDOCX, content: docx,
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := newUploadRequest(t, "/extract", upload{
		field: UploadField, filename: "a.docx", contentType: services.MIMETypeDOCX, content: docx,
	})
	req.Header.Set("X-API-Secret", "top-secret")
	w = serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtract_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSize = 512
	router := newTestRouter(cfg, nil)

	w := serve(router, newUploadRequest(t, "/extract", upload{
		field: UploadField, filename: "big.pdf", contentType: services.MIMETypePDF, content: bytes.Repeat([]byte("x"), 4096),
	}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "request_too_large", resp.ErrorCode)
}

func TestExtract_RateLimited(t *testing.T) {
	router := newTestRouter(testConfig(), middleware.NewRateLimiter(0.001, 1))
	docx := minimalDOCX(t, "once")

	first := serve(router, newUploadRequest(t, "/extract", upload{
		field: UploadField, filename: "a.docx", contentType: services.MIMETypeDOCX, content: docx,
	}))
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(router, newUploadRequest(t, "/extract", upload{
		field: UploadField, filename: "a.docx", contentType: services.MIMETypeDOCX, content: docx,
	}))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestHealth(t *testing.T) {
	router := NewRouter(testConfig(), Dependencies{
		Pipeline:  services.NewPipeline(),
		StartedAt: time.Now().Add(-90 * time.Second),
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, int64(90))
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigins = []string{"https://app.example.com"}
	router := newTestRouter(cfg, nil)

	req := httptest.NewRequest(http.MethodOptions, "/extract", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := serve(router, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, validateFilename("Quarterly Report (final).docx"))
	assert.NoError(t, validateFilename("résumé.pdf"))

	for _, name := range []string{"", "..\\secret.pdf", "a|b.pdf", "x\x00.pdf", strings.Repeat("a", 252) + ".pdfx"} {
		assert.Error(t, validateFilename(name), "filename %q", name)
	}
}
