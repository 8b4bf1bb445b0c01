package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/student"
	logsvc "github.com/ToluGIT/loop/services/logger"
	"github.com/ToluGIT/loop/storage/database"
	inmemdb "github.com/ToluGIT/loop/storage/database/inmem"
	sqlxrepos "github.com/ToluGIT/loop/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli := commandLine{out: os.Stdout}

	// set up storage
	switch conf.Database.Engine {
	case core.EnginePostgres:
		ctx := context.Background()
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer db.Close()

		cli.db = db.DB
		cli.svc = student.NewService(sqlxrepos.NewStudentRepository(db))

	case core.EngineMemory:
		// nothing outlives the process; only useful for trying the reports out
		cli.svc = student.NewService(inmemdb.NewStudentRepository(inmemdb.Open()))
		if _, err := cli.svc.Seed(context.Background()); err != nil {
			logger.Fatal(fmt.Sprintf("seeding demo cohort: %v", err), err)
		}

	default:
		logger.Fatal(fmt.Sprintf("unknown database engine %q", conf.Database.Engine))
	}

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
