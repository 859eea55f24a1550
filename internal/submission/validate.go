package submission

import (
	"encoding/base64"
	"path/filepath"
	"strings"
)

// MaxFileSize caps the decoded upload at 3 MiB. The boundary is
// inclusive: exactly 3 MiB is accepted.
const MaxFileSize = 3 * 1024 * 1024

// allowedTypes maps accepted declared MIME types to the extension used
// for the stored filename. An absent declared type is accepted.
var allowedTypes = map[string]string{
	"application/pdf": "pdf",
	"image/png":       "png",
	"image/jpeg":      "jpg",
}

// ClientError carries a user-facing rejection message. It maps to HTTP
// 400 and never reaches the diagnostic sink.
type ClientError struct {
	msg string
}

func (e *ClientError) Error() string {
	return e.msg
}

func clientErrorf(msg string) *ClientError {
	return &ClientError{msg: msg}
}

// Upload is a validated, decoded file payload.
type Upload struct {
	Name         string
	DeclaredType string
	Data         []byte
}

// ParseUpload validates and decodes the inbound file payload. Any
// failure here rejects the submission with no external side effects.
func ParseUpload(fileName, fileData, fileType string) (*Upload, error) {
	if fileName == "" || fileData == "" {
		return nil, clientErrorf("fileName and fileData are required")
	}

	if fileType != "" {
		if _, ok := allowedTypes[fileType]; !ok {
			return nil, clientErrorf("Only PDF, PNG, and JPEG files are accepted.")
		}
	}

	// Front ends commonly send the FileReader data-URL form.
	if strings.HasPrefix(fileData, "data:") {
		if idx := strings.Index(fileData, "base64,"); idx >= 0 {
			fileData = fileData[idx+len("base64,"):]
		}
	}

	data, err := base64.StdEncoding.DecodeString(fileData)
	if err != nil {
		return nil, clientErrorf("fileData is not valid base64")
	}

	if len(data) > MaxFileSize {
		return nil, clientErrorf("File is larger than 3 MB. Please email it to us instead.")
	}

	return &Upload{
		Name:         fileName,
		DeclaredType: fileType,
		Data:         data,
	}, nil
}

// extension picks the stored file extension: the upload's own
// extension when present, else one derived from the declared type,
// else pdf.
func (u *Upload) extension() string {
	if ext := strings.TrimPrefix(filepath.Ext(u.Name), "."); ext != "" {
		return strings.ToLower(ext)
	}

	if ext, ok := allowedTypes[u.DeclaredType]; ok {
		return ext
	}

	return "pdf"
}
