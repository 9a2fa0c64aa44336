package client

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Canonical returns the string the signature is computed over: the secret,
// then every non-binary parameter as key followed by its text in ascending
// key order, then the secret again.
func Canonical(secret string, params Params) string {
	var sb strings.Builder
	sb.WriteString(secret)
	for _, k := range params.Keys() {
		v := params[k]
		if v.IsBinary() {
			continue
		}
		sb.WriteString(k)
		sb.WriteString(v.Text())
	}
	sb.WriteString(secret)

	return sb.String()
}

// Sign returns the lowercase hex MD5 digest of Canonical(secret, params).
// The remote service verifies exactly this digest, so the algorithm is fixed.
func Sign(secret string, params Params) string {
	sum := md5.Sum([]byte(Canonical(secret, params)))
	return hex.EncodeToString(sum[:])
}
