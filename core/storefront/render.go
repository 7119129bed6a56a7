package storefront

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/webview"
)

// RenderState is a step of RenderPage.
type RenderState int

const (
	StateNavigating RenderState = iota
	StateWaiting
	StateGateDetected
	StateSettling
	StateDone
)

func (s RenderState) String() string {
	switch s {
	case StateNavigating:
		return "navigating"
	case StateWaiting:
		return "waiting"
	case StateGateDetected:
		return "gate_detected"
	case StateSettling:
		return "settling"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	AdultCookieName = "ADULT_GAME_AGREE"
	adultCookieTTL  = 365 * 24 * time.Hour
)

var (
	gateMarkers = []string{"/restrictions/agree", "not suitable for players under the age"}

	gamePathPattern      = regexp.MustCompile(`(?i)/games/(\d+)`)
	sourceProductPattern = regexp.MustCompile(`productNo=(\d+)`)
)

type render struct {
	s      *Scraper
	view   webview.View
	url    string
	marker string

	state     RenderState
	source    string
	deadline  time.Time
	gateTried bool
}

// RenderPage loads rawURL in an offscreen view and returns its HTML once
// marker appears (case-insensitive; "" accepts any content), after which the
// page settles and is read once more.
//
// Without adult content allowed, an age gate is passed by visiting the agree
// endpoint, at most once per call. Reaching the wait timeout is not an error:
// whatever source is present is returned. Only browser failures and ctx
// cancellation produce errors.
func (s *Scraper) RenderPage(ctx context.Context, rawURL, marker string) (string, error) {
	if s.browser == nil {
		return "", ErrInvalidInput
	}

	view, err := s.browser.NewOffscreen(ctx)
	if err != nil {
		return "", err
	}
	defer view.Close()

	if s.allowAdult {
		err := view.SetCookie(ctx, s.endpoints.Store, webview.Cookie{
			Name:    AdultCookieName,
			Value:   "Y",
			Domain:  ".onstove.com",
			Path:    "/",
			Expires: s.clock.Now().Add(adultCookieTTL),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "adult agreement cookie not set", logger.Error(err))
		}
	}

	r := &render{s: s, view: view, url: rawURL, marker: strings.ToLower(marker)}
	for r.state != StateDone {
		if err := r.step(ctx); err != nil {
			return r.source, err
		}
	}
	return r.source, nil
}

func (r *render) transition(to RenderState) {
	r.s.logger.Debug("render state", logger.URL(r.url), logger.State(to.String()))
	if r.s.observer != nil {
		r.s.observer(r.url, r.state, to)
	}
	r.state = to
}

func (r *render) step(ctx context.Context) error {
	switch r.state {
	case StateNavigating:
		if err := r.view.Navigate(ctx, r.url); err != nil {
			return err
		}
		r.deadline = r.s.clock.Now().Add(r.s.renderTimeout)
		r.transition(StateWaiting)

	case StateWaiting:
		if !r.s.clock.Now().Before(r.deadline) {
			r.s.logger.DebugContext(ctx, "render wait timed out", logger.URL(r.url))
			r.transition(StateSettling)
			return nil
		}
		if err := r.s.clock.Sleep(ctx, r.s.pollInterval); err != nil {
			return err
		}

		src, err := r.view.PageSource(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.s.logger.WarnContext(ctx, "page source read failed", logger.URL(r.url), logger.Error(err))
			r.transition(StateSettling)
			return nil
		}
		r.source = src

		if !r.s.allowAdult && !r.gateTried && isAgeGate(src) {
			r.transition(StateGateDetected)
			return nil
		}
		if src != "" && (r.marker == "" || strings.Contains(strings.ToLower(src), r.marker)) {
			r.transition(StateSettling)
		}

	case StateGateDetected:
		r.gateTried = true
		id := gateProductID(r.url, r.source)
		if id == "" {
			r.s.logger.DebugContext(ctx, "age gate without product number", logger.URL(r.url))
			r.transition(StateWaiting)
			return nil
		}

		r.s.logger.DebugContext(ctx, "age gate detected, agreeing", logger.URL(r.url))
		if err := r.view.Navigate(ctx, r.s.endpoints.Store+"/en/restrictions/agree?productNo="+id); err != nil {
			return err
		}
		if err := r.s.clock.Sleep(ctx, gatePause); err != nil {
			return err
		}
		r.transition(StateWaiting)

	case StateSettling:
		if r.source != "" {
			if err := r.s.clock.Sleep(ctx, r.s.settleDelay); err != nil {
				return err
			}
			if updated, err := r.view.PageSource(ctx); err == nil && updated != "" {
				r.source = updated
			}
		}
		r.transition(StateDone)
	}
	return nil
}

func isAgeGate(src string) bool {
	lower := strings.ToLower(src)
	for _, m := range gateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func gateProductID(rawURL, src string) string {
	if m := gamePathPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	if m := sourceProductPattern.FindStringSubmatch(src); m != nil {
		return m[1]
	}
	return ""
}
