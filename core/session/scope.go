package session

import (
	"os"
	"os/user"
	"strings"

	"github.com/stovelib/stove/pkg/secrets"
)

var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// UserScopeKey derives a key from the current OS user, hostname and machine
// id. Tokens sealed under it cannot be opened by another account or on
// another machine.
func UserScopeKey() []byte {
	var username, uid string
	if u, err := user.Current(); err == nil {
		username, uid = u.Username, u.Uid
	}
	hostname, _ := os.Hostname()
	return secrets.KeyFromParts("user-scope", username, uid, hostname, machineID())
}

func machineID() string {
	for _, p := range machineIDPaths {
		if b, err := os.ReadFile(p); err == nil {
			if id := strings.TrimSpace(string(b)); id != "" {
				return id
			}
		}
	}
	return ""
}
