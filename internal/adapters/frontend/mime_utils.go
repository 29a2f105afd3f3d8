package frontend

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
)

// extractTextFromMessage returns the text/plain content of a message. Nested
// multipart containers are walked recursively; attachments are skipped.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	return extractText(msg.Header.Get("Content-Type"), msg.Body)
}

func extractText(contentType string, body io.Reader) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		bodyBytes, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		bodyBytes, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	mr := multipart.NewReader(body, boundary)
	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever was read before the malformed part
			break
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		switch {
		case partType == "" || strings.HasPrefix(partType, "text/plain"):
			if strings.EqualFold(part.Header.Get("Content-Disposition"), "attachment") {
				continue
			}
			partBytes, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			textContent.Write(partBytes)
			textContent.WriteString("\n")
		case strings.HasPrefix(partType, "multipart/"):
			nested, err := extractText(part.Header.Get("Content-Type"), part)
			if err == nil && nested != "" {
				textContent.WriteString(nested)
			}
		}
	}

	return textContent.String(), nil
}

// decodeEncodedHeader decodes RFC 2047 encoded words in a header value
func decodeEncodedHeader(value string) (string, error) {
	dec := new(mime.WordDecoder)
	return dec.DecodeHeader(value)
}
