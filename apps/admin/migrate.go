package main

import (
	"errors"

	"github.com/ToluGIT/loop/storage/database"
)

var (
	gooseRunFunc = database.Migrate // mockable

	errNoDatabase = errors.New("migrate needs the postgres engine (set <ENV>_DATABASE_ENGINE=postgres)")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}
