package storefront

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/stovelib/stove/core/logger"
)

// StoreDetails reads the product-merge component of a product: title,
// genres, tags and title images. The square image becomes the icon and the
// rectangle one is resized into a vertical cover.
func (s *Scraper) StoreDetails(ctx context.Context, productNo int64) (*Listing, error) {
	if productNo <= 0 {
		return nil, fmt.Errorf("%w: product number %d", ErrInvalidInput, productNo)
	}

	q := url.Values{}
	q.Set("component_ids", productMergeComponent)
	q.Set("product_no", itoa(productNo))
	q.Set("preview", "")
	q.Set("timestemp", itoa(s.clock.Now().UnixMilli()))

	var resp storeResponse
	if err := s.client.GetJSON(ctx, s.endpoints.API+"/store/v1.0/components/groups/product-merge?"+q.Encode(), "", &resp); err != nil {
		s.logger.WarnContext(ctx, "store details request failed", logger.ProductNo(productNo), logger.Error(err))
		return nil, err
	}

	if resp.Value == nil || len(resp.Value.Components) == 0 || resp.Value.Components[0].Props == nil {
		return nil, fmt.Errorf("%w: product %d has no store details", ErrPageNotFound, productNo)
	}
	props := resp.Value.Components[0].Props

	listing := &Listing{
		ProductNo: productNo,
		StoreURL:  s.GamePageURL(productNo),
		Title:     strings.TrimSpace(props.ProductName),
		Genres:    toTags(props.Genres),
		Tags:      toTags(props.Tags),
		IconURL:   normalizeURL(props.TitleImageSquare),
	}
	if props.TitleImageRectangle != "" {
		listing.CoverURL = s.verticalCoverURL(props.TitleImageRectangle)
	}
	return listing, nil
}

func (s *Scraper) verticalCoverURL(rect string) string {
	return s.endpoints.Image + "/222x294/" + rect
}

// Developer returns the developer credited for gameID, or "" when the API
// has none.
func (s *Scraper) Developer(ctx context.Context, gameID string) (string, error) {
	if gameID == "" {
		return "", fmt.Errorf("%w: empty game id", ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("game_id", gameID)
	q.Set("timestemp", itoa(s.clock.Now().UnixMilli()))

	var resp developerResponse
	if err := s.client.GetJSON(ctx, s.endpoints.API+"/main-common/v1.0/client/exhibit-games/0?"+q.Encode(), "", &resp); err != nil {
		s.logger.WarnContext(ctx, "developer request failed", logger.GameID(gameID), logger.Error(err))
		return "", err
	}
	if resp.Result != "000" {
		return "", fmt.Errorf("%w: %q %s", ErrUnexpectedResult, resp.Result, resp.Message)
	}
	if resp.Value == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Value.Developer), nil
}

// Publisher returns the publisher credited for gameID, or "" when the API
// has none.
func (s *Scraper) Publisher(ctx context.Context, gameID string) (string, error) {
	if gameID == "" {
		return "", fmt.Errorf("%w: empty game id", ErrInvalidInput)
	}

	rawURL := s.endpoints.API + "/game/v2.2/meta/" + url.PathEscape(gameID) + "?ts=" + itoa(s.clock.Now().UnixMilli())

	var resp metaResponse
	if err := s.client.GetJSON(ctx, rawURL, "", &resp); err != nil {
		s.logger.WarnContext(ctx, "publisher request failed", logger.GameID(gameID), logger.Error(err))
		return "", err
	}
	if resp.Result != "" && resp.Result != "000" {
		return "", fmt.Errorf("%w: %q %s", ErrUnexpectedResult, resp.Result, resp.Message)
	}
	if resp.Value == nil {
		return "", nil
	}
	if name := strings.TrimSpace(resp.Value.PublisherName); name != "" {
		return name, nil
	}
	return strings.TrimSpace(resp.Value.Publisher), nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
