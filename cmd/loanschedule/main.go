/*
main.go - Command-line schedule generator

Prints the amortization schedule of a loan as a table or as JSON, and
optionally saves it to the SQLite database used by the server.

EXAMPLES:
  # 1000 at 3% per period over 4 periods
  loanschedule --capital 1000 --interest 0.03 --periods 4

  # Annual 3% paid monthly over 4 years, constant amortization
  loanschedule --capital 1000 --interest 0.0025 --periods 48 --method constant_amortization

  # High precision, 12 decimal places, saved
  loanschedule --capital 1000 --interest 0.03 --periods 4 --high-precision --scale 12 --save --db schedules.db
*/
package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/warp/loan-schedule/loan"
	"github.com/warp/loan-schedule/store/sqlite"
)

func main() {
	capitalFlag := cli.Float64Flag{Name: "capital", Usage: "amount of debt to repay", Required: true}
	interestFlag := cli.Float64Flag{Name: "interest", Usage: "interest rate per period (annual 3% paid monthly is 0.0025)", Required: true}
	periodsFlag := cli.IntFlag{Name: "periods", Usage: "number of payments", Required: true}
	methodFlag := cli.StringFlag{Name: "method", Value: string(loan.MethodEqualPayment), Usage: "equal_payment, constant_amortization, interest_only or single_repayment"}
	precisionFlag := cli.IntFlag{Name: "precision", Value: int(loan.DefaultPrecision), Usage: "decimal places of reported values"}
	highPrecisionFlag := cli.BoolFlag{Name: "high-precision", Usage: "use arbitrary-precision decimal arithmetic"}
	scaleFlag := cli.IntFlag{Name: "scale", Value: int(loan.DefaultScale), Usage: "decimal places kept in high precision mode"}
	formatFlag := cli.StringFlag{Name: "format", Value: "table", Usage: "table or json"}
	saveFlag := cli.BoolFlag{Name: "save", Usage: "save the schedule to the database"}
	dbFlag := cli.StringFlag{Name: "db", Value: "schedules.db", Usage: "SQLite database path used with --save"}

	app := cli.App{
		Name:  "loanschedule",
		Usage: "print the amortization schedule of a fixed-rate loan",
		Flags: []cli.Flag{
			capitalFlag,
			interestFlag,
			periodsFlag,
			methodFlag,
			precisionFlag,
			highPrecisionFlag,
			scaleFlag,
			formatFlag,
			saveFlag,
			dbFlag,
		},
		Action: func(cctx *cli.Context) error {
			format := cctx.String(formatFlag.Name)
			if err := checkFormat(format); err != nil {
				return cli.NewExitError(err.Error(), 2)
			}

			g := loan.NewGenerator()
			g.SetCapital(cctx.Float64(capitalFlag.Name))
			g.SetInterest(cctx.Float64(interestFlag.Name))
			g.SetPeriods(cctx.Int(periodsFlag.Name))
			g.SetPrecision(cctx.Int(precisionFlag.Name))
			g.SetHighPrecisionMode(cctx.Bool(highPrecisionFlag.Name))
			g.SetScale(cctx.Int(scaleFlag.Name))

			s, err := g.Generate(loan.Method(cctx.String(methodFlag.Name)))
			if err != nil {
				return cli.NewExitError(err.Error(), 2)
			}

			if cctx.Bool(saveFlag.Name) {
				if err := save(cctx.String(dbFlag.Name), s); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
			}

			return render(os.Stdout, s, format)
		},
	}
	app.RunAndExitOnError()
}

func save(dbPath string, s loan.Schedule) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	saved := loan.NewSavedSchedule(s)
	if err := store.Save(context.Background(), saved); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"id": saved.ID,
		"db": dbPath,
	}).Info("Schedule saved")
	return nil
}
