package notify

import (
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildMIME(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "spread-20260830.xlsx")
	content := []byte("not really a workbook, but bytes all the same")
	if err := os.WriteFile(attachment, content, 0o600); err != nil {
		t.Fatal(err)
	}

	raw, err := buildMIME("bot@example.com", []string{"a@example.com", "b@example.com"},
		"EVE Market Region Spreads", "Spread table attached.", attachment)
	if err != nil {
		t.Fatalf("buildMIME: %v", err)
	}

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}

	if got := parsed.Header.Get("Subject"); got != "EVE Market Region Spreads" {
		t.Errorf("Subject = %q", got)
	}
	if got := parsed.Header.Get("To"); got != "a@example.com, b@example.com" {
		t.Errorf("To = %q", got)
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	if mediaType != "multipart/mixed" {
		t.Fatalf("media type = %q, want multipart/mixed", mediaType)
	}

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	// First part: plain-text body.
	p1, err := mr.NextPart()
	if err != nil {
		t.Fatalf("first part: %v", err)
	}
	body, _ := io.ReadAll(p1)
	if string(body) != "Spread table attached." {
		t.Errorf("body = %q", body)
	}

	// Second part: base64 workbook attachment.
	p2, err := mr.NextPart()
	if err != nil {
		t.Fatalf("second part: %v", err)
	}
	if got := p2.Header.Get("Content-Type"); got != xlsxContentType {
		t.Errorf("attachment content type = %q", got)
	}
	if got := p2.Header.Get("Content-Disposition"); !strings.Contains(got, "spread-20260830.xlsx") {
		t.Errorf("Content-Disposition = %q does not name the file", got)
	}
	// multipart does not decode transfer encodings; check the raw base64 is
	// line-wrapped and non-empty.
	encoded, _ := io.ReadAll(p2)
	if len(encoded) == 0 {
		t.Fatal("attachment part is empty")
	}
	for _, line := range strings.Split(strings.TrimSpace(string(encoded)), "\r\n") {
		if len(line) > base64LineLen {
			t.Errorf("encoded line exceeds %d chars: %d", base64LineLen, len(line))
		}
	}
}

func TestBuildMIMEWithoutAttachment(t *testing.T) {
	raw, err := buildMIME("bot@example.com", []string{"a@example.com"}, "subject", "body", "")
	if err != nil {
		t.Fatalf("buildMIME: %v", err)
	}
	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	_, params, _ := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	mr := multipart.NewReader(parsed.Body, params["boundary"])

	if _, err := mr.NextPart(); err != nil {
		t.Fatalf("first part: %v", err)
	}
	if _, err := mr.NextPart(); err != io.EOF {
		t.Errorf("second part err = %v, want io.EOF", err)
	}
}

func TestBuildMIMEMissingAttachment(t *testing.T) {
	_, err := buildMIME("bot@example.com", []string{"a@example.com"}, "s", "b", "/does/not/exist.xlsx")
	if err == nil {
		t.Fatal("buildMIME succeeded with a missing attachment file")
	}
}
