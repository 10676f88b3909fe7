package blob

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// buildObjectKey generates a collision-resistant object key under notes/,
// preserving the original extension so stored objects stay recognizable.
func buildObjectKey(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:18]
	return fmt.Sprintf("notes/%d-%s%s", now.UnixMilli(), name, ext)
}

// publicURL builds the URL stored on the note record for a given object key.
func (g *Gateway) publicURL(key string) string {
	if g.customDomain != "" {
		return g.customDomain + "/" + key
	}
	if g.endpoint != "" {
		if g.pathStyle {
			return g.endpoint + "/" + g.bucket + "/" + encodeKey(key)
		}
		return insertBucketHost(g.endpoint, g.bucket) + "/" + encodeKey(key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, encodeKey(key))
}

// encodeKey escapes each path segment of an object key.
func encodeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// insertBucketHost prefixes the endpoint host with the bucket for
// virtual-host style addressing.
func insertBucketHost(endpoint, bucket string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	if !strings.HasPrefix(strings.ToLower(u.Host), strings.ToLower(bucket)+".") {
		u.Host = bucket + "." + u.Host
	}
	return strings.TrimSuffix(u.String(), "/")
}

// AttachmentDisposition renders the Content-Disposition header for a
// downloaded note file, quoting the filename safely.
func AttachmentDisposition(fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "download"
	}
	name = strings.NewReplacer("\\", "_", `"`, "_", "\r", "", "\n", "").Replace(name)
	return `attachment; filename="` + name + `"`
}

// FormatSize is a debug helper used by log fields.
func FormatSize(n int64) string {
	if n <= 0 {
		return "unknown"
	}
	return strconv.FormatInt(n, 10) + "B"
}
