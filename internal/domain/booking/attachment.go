package booking

import (
	"fmt"
	"strings"
)

// MaxAttachmentBytes is the per-file upload limit for estimate requests.
const MaxAttachmentBytes = 10 * 1024 * 1024

// allowedAttachmentTypes lists the MIME types customers may attach.
var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
	"text/plain":      true,
}

// Attachment is a customer-supplied file forwarded with a quote request.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewAttachment validates and creates an Attachment. contentType must be the
// sniffed type of data, not the type the client claimed.
func NewAttachment(filename, contentType string, data []byte) (Attachment, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return Attachment{}, fmt.Errorf("attachment filename is required")
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("attachment %s is empty", name)
	}
	if len(data) > MaxAttachmentBytes {
		return Attachment{}, fmt.Errorf("attachment %s exceeds %d MB", name, MaxAttachmentBytes/(1024*1024))
	}
	base := mediaType(contentType)
	if !allowedAttachmentTypes[base] {
		return Attachment{}, fmt.Errorf("attachment %s has unsupported type %s", name, base)
	}
	return Attachment{Filename: name, ContentType: base, Data: data}, nil
}

// Size returns the attachment size in bytes.
func (a Attachment) Size() int { return len(a.Data) }

func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
