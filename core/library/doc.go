// Package library adapts the storefront account to a game launcher's
// library: importing owned games as catalog entries and filling in store
// metadata for them.
//
// The host supplies a Notifier for user-facing messages. Import failures
// caused by an expired session leave a notification asking the user to sign
// in again.
package library
