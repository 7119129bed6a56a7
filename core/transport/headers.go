package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/mssola/useragent"
	"golang.org/x/text/language"
)

// Default header values mirror a desktop Chrome session on the US English store.
const (
	DefaultLocale     = "en-US"
	DefaultDeviceType = "P01"
	DefaultTimezone   = "America/Los_Angeles"
	DefaultOrigin     = "https://store.onstove.com"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36"
)

// Headers describes the identity every API request presents.
type Headers struct {
	Locale     string // BCP 47 tag, e.g. "en-US" or "ko-KR"
	DeviceType string
	Timezone   string // IANA zone name
	UserAgent  string
	Origin     string
}

// DefaultHeaders returns the stock desktop identity.
func DefaultHeaders() Headers {
	return Headers{
		Locale:     DefaultLocale,
		DeviceType: DefaultDeviceType,
		Timezone:   DefaultTimezone,
		UserAgent:  DefaultUserAgent,
		Origin:     DefaultOrigin,
	}
}

// Build renders the header set. X-Utc-Offset is the configured zone's offset
// at now; Client recomputes it for every request.
func (h Headers) Build(now time.Time) (http.Header, error) {
	h = h.withDefaults()

	tag, err := language.Parse(h.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %v", ErrInvalidHeaders, h.Locale, err)
	}
	base, _ := tag.Base()
	region, _ := tag.Region()

	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidHeaders, h.Timezone, err)
	}

	if err := validateUserAgent(h.UserAgent); err != nil {
		return nil, err
	}

	origin := strings.TrimRight(h.Origin, "/")

	header := make(http.Header)
	header.Set("X-Lang", base.String())
	header.Set("X-Nation", region.String())
	header.Set("X-Device-Type", h.DeviceType)
	header.Set("X-Timezone", h.Timezone)
	header.Set(headerUTCOffset, utcOffset(now, loc))
	header.Set("User-Agent", h.UserAgent)
	header.Set("Accept", "application/json")
	header.Set("Origin", origin)
	header.Set("Referer", origin+"/")
	return header, nil
}

const headerUTCOffset = "X-Utc-Offset"

// utcOffset is the offset of loc at now in minutes.
func utcOffset(now time.Time, loc *time.Location) string {
	_, offset := now.In(loc).Zone()
	return strconv.Itoa(offset / 60)
}

func (h Headers) withDefaults() Headers {
	d := DefaultHeaders()
	if h.Locale == "" {
		h.Locale = d.Locale
	}
	if h.DeviceType == "" {
		h.DeviceType = d.DeviceType
	}
	if h.Timezone == "" {
		h.Timezone = d.Timezone
	}
	if h.UserAgent == "" {
		h.UserAgent = d.UserAgent
	}
	if h.Origin == "" {
		h.Origin = d.Origin
	}
	return h
}

// The storefront serves degraded responses to crawlers, so the configured
// agent must parse as a real browser.
func validateUserAgent(s string) error {
	ua := useragent.New(s)
	if ua.Bot() {
		return fmt.Errorf("%w: user agent %q identifies as a bot", ErrInvalidHeaders, s)
	}
	if name, _ := ua.Browser(); name == "" {
		return fmt.Errorf("%w: user agent %q is not a browser", ErrInvalidHeaders, s)
	}
	return nil
}
