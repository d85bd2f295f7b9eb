package ledger

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"tagrun/internal/tag"
)

// Compute derives the stable identity for a tag occurrence. An explicit id
// field wins and deliberately omits the file path so a tag can be moved to
// another file without changing identity. Otherwise the identity is the
// absolute path plus a short hash of path and message; the line number and
// any relative "at" expression are left out on purpose, so edits elsewhere
// in the file or a reschedule do not mint a new identity.
func Compute(sourceFile string, params *tag.Params) string {
	if id := params.Lookup("id"); id != "" {
		return "id:" + id
	}
	message := params.Lookup("message")
	h := sha1.New()
	h.Write([]byte(sourceFile))
	h.Write([]byte("\n"))
	h.Write([]byte(message))
	digest := hex.EncodeToString(h.Sum(nil))[:12]
	return fmt.Sprintf("%s#%s", sourceFile, digest)
}

// FromLine is the position-based identity variant used by message sends,
// where the same text to the same recipient is legitimate on different
// lines.
func FromLine(sourceFile string, line int) string {
	return fmt.Sprintf("%s:%d", sourceFile, line)
}

// Marker renders an identity as the opaque audit string embedded in the
// body handed to the executor. The ledger stays authoritative; the marker
// only makes the identity recoverable from the destination system.
func Marker(identity string) string {
	return "@source:" + identity
}
