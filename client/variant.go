package client

import (
	"fmt"
	"strconv"
	"time"
)

// Variant selects the API generation a [Client] talks to. The two
// generations share the signing algorithm but differ in metadata fields,
// base host and the binary kind their endpoints accept.
type Variant int

const (
	// Legacy is the v2 API. Uploads are file backed.
	Legacy Variant = iota + 1
	// Current is the v3 API. Uploads are in-memory payloads.
	Current
)

// Base addresses of the two API generations.
const (
	LegacyBaseURL  = "https://e.vhall.com/api/vhallapi/v2"
	CurrentBaseURL = "https://vhallapi.vhall.com/api/v3"
)

// Reserved parameter names injected by the envelope. Callers cannot set them.
const (
	KeyAppKey   = "app_key"
	KeySignedAt = "signed_at"
	KeySign     = "sign"
	KeyAuthType = "auth_type"
	KeySignType = "sign_type"

	// KeyResourceFile is the legacy document field that is signed but
	// stripped from the wire when it carries a textual value.
	KeyResourceFile = "resfile"
)

var reservedKeys = []string{KeyAppKey, KeySignedAt, KeySign, KeyAuthType, KeySignType}

func (v Variant) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Current:
		return "current"
	default:
		return "variant(" + strconv.Itoa(int(v)) + ")"
	}
}

func (v Variant) valid() error {
	if v != Legacy && v != Current {
		return fmt.Errorf("unknown api variant %d", int(v))
	}
	return nil
}

// BaseURL returns the compiled-in base address of v.
func (v Variant) BaseURL() string {
	if v == Legacy {
		return LegacyBaseURL
	}
	return CurrentBaseURL
}

// metadata returns the signing metadata seeded into every envelope of v.
func (v Variant) metadata(appKey string, now time.Time) Params {
	p := Params{
		KeyAppKey:   String(appKey),
		KeySignedAt: String(strconv.FormatInt(now.UnixMilli(), 10)),
	}
	switch v {
	case Legacy:
		p[KeyAuthType] = String("2")
	case Current:
		p[KeySignType] = String("0")
	}
	return p
}
