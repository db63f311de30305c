package build

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/inful/mdfp"
)

// Fingerprint identifies one written output and the source it came from.
type Fingerprint struct {
	SourceHash string
	OutputHash string
	RenderHash string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.SourceHash))
	h.Write([]byte(f.OutputHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// SourceHash fingerprints a source document split into front matter and body.
func SourceHash(frontMatter, body string) string {
	return mdfp.CalculateFingerprintFromParts(frontMatter, body)
}

func OutputHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// New fingerprints a source (possibly empty for non-page outputs) and its output.
func New(sourceHash string, output []byte) Fingerprint {
	f := Fingerprint{SourceHash: sourceHash, OutputHash: OutputHash(output)}
	f.ComputeRenderHash()
	return f
}
