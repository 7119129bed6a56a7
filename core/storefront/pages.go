package storefront

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stovelib/stove/core/logger"
)

// Description renders storeURL and returns the product description HTML, or
// "" when no candidate block exists.
func (s *Scraper) Description(ctx context.Context, storeURL string) (string, error) {
	if strings.TrimSpace(storeURL) == "" {
		return "", fmt.Errorf("%w: empty store url", ErrInvalidInput)
	}

	doc, err := s.renderDocument(ctx, storeURL, featuresMarker)
	if err != nil {
		return "", err
	}

	desc := selectDescription(doc)
	if desc == "" {
		s.logger.DebugContext(ctx, "description missing", logger.URL(storeURL), logger.Error(ErrParseDegraded))
	}
	return desc, nil
}

// Listing renders the store page of productNo and parses every field it can
// find.
func (s *Scraper) Listing(ctx context.Context, productNo int64) (*Listing, error) {
	if productNo <= 0 {
		return nil, fmt.Errorf("%w: product number %d", ErrInvalidInput, productNo)
	}

	pageURL := s.GamePageURL(productNo)
	doc, err := s.renderDocument(ctx, pageURL, featuresMarker)
	if err != nil {
		return nil, err
	}

	listing, degraded := parseListing(doc, productNo, pageURL)
	if len(degraded) > 0 {
		s.logger.DebugContext(ctx, "listing fields missing",
			logger.ProductNo(productNo),
			logger.Error(fmt.Errorf("%w: %s", ErrParseDegraded, strings.Join(degraded, ", "))),
		)
	}
	return listing, nil
}

// ProfileGameIDs lists the full games shown on a public profile. profileURL
// may point at the profile root or directly at its games tab.
func (s *Scraper) ProfileGameIDs(ctx context.Context, profileURL string) ([]string, error) {
	gamesURL, err := profileGamesURL(profileURL)
	if err != nil {
		return nil, err
	}

	html, err := s.RenderPage(ctx, gamesURL, gameLinkMarker)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		s.logger.WarnContext(ctx, "profile page empty", logger.URL(gamesURL))
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	ids := parseProfileGameIDs(doc)
	s.logger.InfoContext(ctx, "profile games found", logger.URL(gamesURL), logger.Count("games", len(ids)))
	return ids, nil
}

func (s *Scraper) renderDocument(ctx context.Context, pageURL, marker string) (*goquery.Document, error) {
	html, err := s.RenderPage(ctx, pageURL, marker)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" || strings.Contains(strings.ToLower(html), notFoundMarker) {
		s.logger.InfoContext(ctx, "store page not found", logger.URL(pageURL))
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func profileGamesURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: profile url %q", ErrInvalidInput, raw)
	}
	if strings.Contains(strings.ToLower(u.Path), "/game") {
		return u.String(), nil
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/game"
	u.RawQuery = "types=GAME"
	u.Fragment = ""
	return u.String(), nil
}
