// Package all wires the built-in storage backends into the storage factory.
//
// It exists purely for side effects: a blank import runs the init functions
// of each backend, which register their factories with the storage package.
// Importing it makes the "sqlite" and "postgres" kinds available at runtime.
package all

import (
	_ "stationload/internal/storage/postgres"
	_ "stationload/internal/storage/sqlite"
)
