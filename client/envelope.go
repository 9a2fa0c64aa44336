package client

import (
	"slices"
	"time"

	"github.com/xxscloud/vhall/internal/validate"
)

// Credential identifies the integrating application to the remote service.
type Credential struct {
	AppKey    string `json:"app_key" validate:"required"`
	SecretKey string `json:"secret_key" validate:"required"`
}

// Validate checks both halves of the credential are present.
func (c Credential) Validate() error {
	return validate.Check(c)
}

// Envelope is the signed parameter set of a single request.
type Envelope struct {
	// Signed holds every parameter the signature was computed over,
	// including the sign field itself.
	Signed Params
	// Wire holds the parameters actually transmitted.
	Wire Params
	// Signature is the value stored under the sign key.
	Signature string
}

// Seal builds the envelope for one request: variant metadata stamped with
// now, merged with params, then signed with the credential's secret.
// Metadata keys always win over caller keys of the same name.
func Seal(cred Credential, variant Variant, params Params, now time.Time) Envelope {
	signed := make(Params, len(params)+4)
	for k, v := range params {
		signed[k] = v
	}
	for k, v := range variant.metadata(cred.AppKey, now) {
		signed[k] = v
	}
	delete(signed, KeySign)

	sig := Sign(cred.SecretKey, signed)
	signed[KeySign] = String(sig)

	wire := signed.Clone()
	if variant == Legacy {
		if v, ok := wire[KeyResourceFile]; ok && !v.IsBinary() {
			delete(wire, KeyResourceFile)
		}
	}

	return Envelope{Signed: signed, Wire: wire, Signature: sig}
}

// reserved returns the caller keys that collide with envelope metadata.
// nonFinite returns the keys whose values hold NaN or an infinity.
func nonFinite(params Params) []string {
	var keys []string
	for _, k := range params.Keys() {
		if !params[k].finite() {
			keys = append(keys, k)
		}
	}
	return keys
}

func reserved(params Params) []string {
	var keys []string
	for _, k := range params.Keys() {
		if slices.Contains(reservedKeys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}
