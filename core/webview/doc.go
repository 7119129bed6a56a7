// Package webview defines the embedded browser capability the session
// extractor and the page renderer drive.
//
// The host supplies a Factory backed by its real browser control. Offscreen
// views are used for cookie extraction, logout and page rendering; a Dialog
// is the visible login window. All surfaces created by one Factory share a
// cookie profile, which is how a login in the dialog becomes visible to the
// offscreen extractor.
//
// Package webviewtest provides a scripted in-memory Factory for tests.
package webview
