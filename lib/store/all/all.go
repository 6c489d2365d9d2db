// Package all is a meta-package that imports all store implementations so
// their factories are registered.
package all

import (
	_ "github.com/TecharoHQ/sphinx/lib/store/bbolt"
	_ "github.com/TecharoHQ/sphinx/lib/store/memory"
	_ "github.com/TecharoHQ/sphinx/lib/store/valkey"
)
