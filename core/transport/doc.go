// Package transport sends storefront HTTP requests through a shared rate
// limiter with the headers the storefront expects from a desktop browser.
//
//	client, err := transport.New(
//		transport.WithLimiter(bucket),
//		transport.WithHeaders(transport.Headers{Locale: "en-US", Timezone: "America/Los_Angeles"}),
//		transport.WithLogger(log),
//	)
//
//	var page ownedGamesPage
//	err = client.GetJSON(ctx, url, token, &page)
//	if transport.StatusCode(err) == http.StatusUnauthorized {
//		// refresh the session
//	}
//
// Send blocks until the limiter grants a slot. Concurrent callers are admitted
// in arrival order. Errors from the limiter (ctx.Err()) and from the HTTP
// stack are returned without re-wrapping, so errors.Is matches the original
// cause. IsTransient classifies timeouts and connection failures.
package transport
