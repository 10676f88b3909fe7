package blob

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	key := buildObjectKey("Signals Notes.PDF", now)
	assert.True(t, strings.HasPrefix(key, "notes/1700000000000-"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	// No extension falls back to .dat.
	assert.True(t, strings.HasSuffix(buildObjectKey("README", now), ".dat"))
	assert.True(t, strings.HasSuffix(buildObjectKey("", now), ".dat"))

	// Two keys for the same name never collide.
	assert.NotEqual(t, buildObjectKey("a.pdf", now), buildObjectKey("a.pdf", now))
}

func TestPublicURL(t *testing.T) {
	g := &Gateway{bucket: "campus-notes", region: "us-east-1"}
	assert.Equal(t,
		"https://campus-notes.s3.us-east-1.amazonaws.com/notes/a%20b.pdf",
		g.publicURL("notes/a b.pdf"))

	g = &Gateway{bucket: "campus-notes", endpoint: "https://minio.local:9000", pathStyle: true}
	assert.Equal(t,
		"https://minio.local:9000/campus-notes/notes/x.pdf",
		g.publicURL("notes/x.pdf"))

	g = &Gateway{bucket: "campus-notes", endpoint: "https://r2.example.com"}
	assert.Equal(t,
		"https://campus-notes.r2.example.com/notes/x.pdf",
		g.publicURL("notes/x.pdf"))

	g = &Gateway{bucket: "campus-notes", customDomain: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/notes/x.pdf", g.publicURL("notes/x.pdf"))
}

func TestAttachmentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="notes.pdf"`, AttachmentDisposition("notes.pdf"))
	assert.Equal(t, `attachment; filename="download"`, AttachmentDisposition("  "))
	assert.Equal(t, `attachment; filename="a_b_.pdf"`, AttachmentDisposition("a\"b\\.pdf"))
	assert.NotContains(t, AttachmentDisposition("evil\r\nheader.pdf"), "\n")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "unknown", FormatSize(-1))
	assert.Equal(t, "unknown", FormatSize(0))
	assert.Equal(t, "1048576B", FormatSize(1<<20))
}
