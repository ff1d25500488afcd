package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func multipartContext(t *testing.T, maxMemory int64, fileName string, content []byte) *gin.Context {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("name", "Jan Jansen"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := writer.CreateFormFile("files", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	c, engine := gin.CreateTestContext(httptest.NewRecorder())
	engine.MaxMultipartMemory = maxMemory
	c.Request = httptest.NewRequest(http.MethodPost, "/public/leads", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c
}

// A file part larger than the multipart memory threshold spills to a temp
// file. Its reader must stay readable after parsing so the upload can still
// consume it.
func TestParseMultipartSpilledPartStaysReadable(t *testing.T) {
	content := bytes.Repeat([]byte("v"), 64*1024)
	c := multipartContext(t, 1, "walkthrough.mp4", content)

	h := &PublicHandler{}
	req, uploads, cleanup, err := h.parseMultipart(c)
	if err != nil {
		t.Fatalf("parseMultipart: %v", err)
	}
	defer cleanup()

	if req.Name != "Jan Jansen" {
		t.Fatalf("unexpected form name %q", req.Name)
	}
	if len(uploads) != 1 {
		t.Fatalf("got %d uploads, want 1", len(uploads))
	}

	data, err := io.ReadAll(uploads[0].Reader)
	if err != nil {
		t.Fatalf("reading spilled upload after parse: %v", err)
	}
	if len(data) != len(content) {
		t.Fatalf("got %d bytes, want %d", len(data), len(content))
	}
}

func TestParseMultipartCleanupClosesParts(t *testing.T) {
	c := multipartContext(t, 1, "roof.jpg", bytes.Repeat([]byte("p"), 8*1024))

	h := &PublicHandler{}
	_, uploads, cleanup, err := h.parseMultipart(c)
	if err != nil {
		t.Fatalf("parseMultipart: %v", err)
	}

	cleanup()

	if _, err := io.ReadAll(uploads[0].Reader); err == nil {
		t.Fatal("expected read to fail after cleanup closed the part")
	}
}
