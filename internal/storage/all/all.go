// Package all registers every storage backend with the storage factory.
// Commands blank-import this package; config selects which backend runs.
package all

import (
	_ "binday/internal/storage/mssql"
	_ "binday/internal/storage/postgres"
	_ "binday/internal/storage/sqlite"
)
