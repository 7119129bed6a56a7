package auth

import "strings"

// Endpoints are the storefront addresses the browser flows visit.
type Endpoints struct {
	Store    string // authenticated landing page, e.g. https://store.onstove.com
	Accounts string // account service root
	WWW      string // portal root; login may finish here
	// CookieHosts are the hosts auth cookies are deleted from on logout.
	CookieHosts []string
}

// DefaultEndpoints returns the production storefront addresses.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Store:    "https://store.onstove.com",
		Accounts: "https://accounts.onstove.com",
		WWW:      "https://www.onstove.com",
		CookieHosts: []string{
			"onstove.com",
			"www.onstove.com",
			"store.onstove.com",
			"accounts.onstove.com",
			"api.onstove.com",
		},
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Store == "" {
		e.Store = d.Store
	}
	if e.Accounts == "" {
		e.Accounts = d.Accounts
	}
	if e.WWW == "" {
		e.WWW = d.WWW
	}
	if len(e.CookieHosts) == 0 {
		e.CookieHosts = d.CookieHosts
	}
	e.Store = strings.TrimRight(e.Store, "/")
	e.Accounts = strings.TrimRight(e.Accounts, "/")
	e.WWW = strings.TrimRight(e.WWW, "/")
	return e
}

func (e Endpoints) storeRoot() string    { return e.Store + "/" }
func (e Endpoints) accountsRoot() string { return e.Accounts + "/" }
func (e Endpoints) loginURL() string     { return e.Accounts + "/login" }
func (e Endpoints) logoutURL() string    { return e.Accounts + "/logout" }
