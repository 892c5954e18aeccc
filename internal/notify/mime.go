package notify

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// xlsxContentType is the media type of the attached workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// base64LineLen is the RFC 2045 maximum encoded line length.
const base64LineLen = 76

// buildMIME assembles a raw RFC 5322 message with a plain-text body and an
// optional base64-encoded file attachment, as SES's raw sending API expects.
func buildMIME(from string, to []string, subject, body, attachmentPath string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	textHdr := textproto.MIMEHeader{}
	textHdr.Set("Content-Type", "text/plain; charset=utf-8")
	part, err := mw.CreatePart(textHdr)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}

	if attachmentPath != "" {
		if err := attachFile(mw, attachmentPath); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), nil
}

// attachFile adds the file at path as a base64 attachment part.
func attachFile(mw *multipart.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}
	name := filepath.Base(path)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", xlsxContentType)
	hdr.Set("Content-Transfer-Encoding", "base64")
	hdr.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	part, err := mw.CreatePart(hdr)
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}

	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 0 {
		n := base64LineLen
		if n > len(enc) {
			n = len(enc)
		}
		if _, err := part.Write([]byte(enc[:n])); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
		if _, err := part.Write([]byte("\r\n")); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
		enc = enc[n:]
	}
	return nil
}
