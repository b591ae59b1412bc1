package service

import (
	"github.com/pkg/errors"

	"exusiai.dev/pocketstats/internal/carddb"
)

var errBoom = errors.New("boom")

func mustLoadDB() *carddb.DB {
	db, err := carddb.Load()
	if err != nil {
		panic(err)
	}
	return db
}
