// Package auth obtains and maintains the storefront session.
//
// Extractor drives an offscreen browser view to the store and reads the auth
// cookies: SUAT is the bearer token (a JWT), and the member number comes from
// the first decoder that succeeds among the SUAT payload, the base64 PLD
// profile cookie and the legacy SUMT_INFO cookie (URL-encoded twice). A token
// whose exp claim has passed is rejected. Extractor never returns errors; a
// failed extraction is ok=false.
//
// Coordinator resolves sessions in order: in-memory cache, persisted store,
// browser extraction. Concurrent extractions collapse into one. It also runs
// the interactive Login window and the Logout flow, which deletes the auth
// cookies on every storefront host around a visit to the logout page.
//
//	coord := auth.NewCoordinator(store, auth.NewExtractor(browser), browser)
//
//	sess, err := coord.Session(ctx)
//	if errors.Is(err, auth.ErrAuthenticationExpired) {
//		// ask the user to log in
//	}
//
// All delays run through pkg/clock so tests can use clock.Fake.
package auth
