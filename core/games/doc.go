// Package games fetches the account's owned games.
//
//	fetcher := games.NewFetcher(client, coordinator, games.WithLogger(log))
//	owned, err := fetcher.FetchAll(ctx, sess)
//	if errors.Is(err, auth.ErrAuthenticationExpired) {
//		// prompt re-login
//	}
//
// Pages are requested strictly in order. Records are appended as they
// arrive and are not de-duplicated. See FetchAll for the 401 and
// partial-result rules.
package games
