package listing

import (
	"crypto/rand"
	"math/big"

	"github.com/gosimple/slug"
)

const (
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLen      = 4
)

// makeSlug builds "<slugified title>-<suffix>".
func makeSlug(title, suffix string) string {
	base := slug.Make(title)
	if base == "" {
		base = "property"
	}
	return base + "-" + suffix
}

func randomSuffix() string {
	out := make([]byte, suffixLen)
	max := big.NewInt(int64(len(suffixAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = suffixAlphabet[i]
			continue
		}
		out[i] = suffixAlphabet[n.Int64()]
	}
	return string(out)
}
