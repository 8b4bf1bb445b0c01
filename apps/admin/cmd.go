package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ToluGIT/loop/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db  *sql.DB // nil unless the postgres engine is configured
	svc student.ServiceInterface
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]     - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed                       - store the demo cohort")
	fmt.Fprintln(cli.out, "  report -student ID|NAME    - print a student's classification report")
	fmt.Fprintln(cli.out, "  campus                     - print cohort-wide statistics")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportStudent := reportCmd.String("student", "", "The student's ID, name or email, or \"first\".")

	ctx := context.Background()

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed(ctx)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		if *reportStudent == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(ctx, *reportStudent)
	case "campus":
		return cli.campus(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) seed(ctx context.Context) error {
	n, err := cli.svc.Seed(ctx)
	if err == student.ErrEmailExists {
		fmt.Fprintln(cli.out, "demo cohort already seeded")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seeded %d students\n", n)
	return nil
}
