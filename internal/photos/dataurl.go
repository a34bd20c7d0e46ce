package photos

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/2beens/elitefitness/internal/fitness"
)

const blobRefPrefix = "blob:"

// Image is a decoded upload.
type Image struct {
	ContentType string
	Data        []byte
}

// ParseDataURL decodes "data:<mime>;base64,<payload>". Only images are accepted
// and the decoded payload must not exceed maxBytes (0 means no limit).
func ParseDataURL(dataURL string, maxBytes int64) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return Image{}, fitness.NewValidationError("image", "not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fitness.NewValidationError("image", "malformed data url")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Image{}, fitness.NewValidationError("image", "data url must be base64 encoded")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fitness.NewValidationError("image", fmt.Sprintf("unsupported content type %q", contentType))
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return Image{}, fitness.NewValidationError("image", fmt.Sprintf("larger than %d bytes", maxBytes))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fitness.NewValidationError("image", "invalid base64 payload")
	}
	if len(data) == 0 {
		return Image{}, fitness.NewValidationError("image", "empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Image{}, fitness.NewValidationError("image", fmt.Sprintf("larger than %d bytes", maxBytes))
	}

	return Image{
		ContentType: contentType,
		Data:        data,
	}, nil
}

func blobRef(key string) string {
	return blobRefPrefix + key
}

// blobKey extracts the blob key out of an image reference.
func blobKey(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, blobRefPrefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
