// Package storefront reads product metadata from the storefront.
//
// JSON endpoints (StoreDetails, Developer, Publisher) go through the shared
// rate-limited transport. Page scraping (Description, Listing,
// ProfileGameIDs) renders pages in an offscreen browser view with RenderPage
// and parses them with goquery.
//
// RenderPage is a small state machine:
//
//	Navigating -> Waiting -> (GateDetected -> Waiting) -> Settling -> Done
//
// Waiting polls the page source until a marker appears or the timeout
// passes. GateDetected is entered at most once per call and only when adult
// content is not allowed; otherwise the agreement cookie is set up front.
//
// Parsing works field by field. A missing field is logged at debug level
// with ErrParseDegraded and left empty; it never fails the call.
//
//	scraper := storefront.NewScraper(client, browser, storefront.WithAdultContent(true))
//	listing, err := scraper.Listing(ctx, 12345)
//	if errors.Is(err, storefront.ErrPageNotFound) {
//		// product removed from the store
//	}
package storefront
