package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names set by the storefront's account service.
const (
	CookieBearer   = "SUAT"      // access token, a JWT
	CookieProfile  = "PLD"       // base64 JSON profile
	CookieIdentity = "SUMT_INFO" // legacy, URL-encoded twice JSON
)

// MemberSource names a way of reading the member number from cookies.
type MemberSource string

const (
	MemberFromBearer   MemberSource = "bearer"
	MemberFromProfile  MemberSource = "profile"
	MemberFromIdentity MemberSource = "identity"
)

// DefaultMemberSources is the order member number decoders are tried in.
// The backend has moved between these over time; the order is provisional.
var DefaultMemberSources = []MemberSource{MemberFromBearer, MemberFromProfile, MemberFromIdentity}

// bearerClaims holds what the extractor reads from the SUAT payload.
type bearerClaims struct {
	MemberNo  int64
	ExpiresAt time.Time // zero if absent or unparseable
}

// parseBearer reads the payload of a JWT without verifying its signature;
// the token is only ever presented back to the issuer.
func parseBearer(token string) (bearerClaims, error) {
	parser := jwt.NewParser(jwt.WithJSONNumber())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return bearerClaims{}, fmt.Errorf("%w: %w", errBadTokenFmt, err)
	}

	var out bearerClaims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	if n, ok := toMemberNo(claims["member_no"]); ok {
		out.MemberNo = n
	} else if n, ok := toMemberNo(claims["sub"]); ok {
		out.MemberNo = n
	}
	return out, nil
}

type memberPayload struct {
	MemberNo any `json:"member_no"`
}

// memberFromProfile decodes the PLD cookie: base64 (either alphabet, padding
// optional) of a JSON object with member_no. A '+' is base64 data, never an
// encoded space, so only percent escapes are undone.
func memberFromProfile(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "%") {
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}
	}

	raw, err := decodeBase64(value)
	if err != nil {
		return 0, err
	}
	return memberFromJSON(raw)
}

// memberFromIdentity decodes the legacy SUMT_INFO cookie: JSON URL-encoded twice.
func memberFromIdentity(value string) (int64, error) {
	decoded := value
	for range 2 {
		next, err := url.QueryUnescape(decoded)
		if err != nil {
			return 0, err
		}
		decoded = next
	}
	return memberFromJSON([]byte(decoded))
}

func memberFromJSON(raw []byte) (int64, error) {
	var p memberPayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return 0, err
	}
	n, ok := toMemberNo(p.MemberNo)
	if !ok {
		return 0, errNoMember
	}
	return n, nil
}

func toMemberNo(v any) (int64, bool) {
	var n int64
	var err error
	switch t := v.(type) {
	case json.Number:
		n, err = t.Int64()
	case string:
		n, err = strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	case float64:
		n = int64(t)
	default:
		return 0, false
	}
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
