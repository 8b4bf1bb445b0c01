package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/ToluGIT/loop/apps/api/echo"
	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/student"
	logsvc "github.com/ToluGIT/loop/services/logger"
	"github.com/ToluGIT/loop/storage/database"
	inmemdb "github.com/ToluGIT/loop/storage/database/inmem"
	sqlxrepos "github.com/ToluGIT/loop/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repo, db, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	if db != nil {
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
	}

	// set up services
	studentSvc := student.NewService(repo)
	if conf.Seed && conf.Database.Engine == core.EngineMemory {
		n, err := studentSvc.Seed(context.Background())
		if err != nil {
			logger.Fatal(fmt.Sprintf("seeding demo cohort: %v", err), err)
		}
		logger.Info(fmt.Sprintf("Seeded %d demo students", n))
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("engine").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			StudentSvc: studentSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStorage returns the student repository for the configured engine.
// db is nil for the memory engine.
func setUpStorage(conf *core.Config) (student.Repository, *sqlx.DB, error) {
	switch conf.Database.Engine {
	case core.EngineMemory:
		return inmemdb.NewStudentRepository(inmemdb.Open()), nil, nil

	case core.EnginePostgres:
		ctx := context.Background()
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, nil, err
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		if err = database.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxrepos.NewStudentRepository(db), db, nil

	default:
		return nil, nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}
