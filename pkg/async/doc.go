// Package async provides a small generic Future for running independent calls
// concurrently and collecting their results.
//
// # Usage
//
//	description := async.Async(ctx, storeURL, scraper.Description)
//	developer := async.Async(ctx, gameID, scraper.Developer)
//
//	desc, err := description.Await()
//	dev, err := developer.Await()
//
// Each future is awaited independently, so one failing call does not hide the
// results of the others. WaitAll and WaitAny coordinate sets of futures of the
// same type.
//
// # Error Handling
//
//   - ErrTimeout: AwaitWithTimeout elapsed before completion
//   - ErrNoFutures: WaitAny called without futures
//
// A context that is already cancelled when Async is called yields ctx.Err()
// without invoking the function.
package async
