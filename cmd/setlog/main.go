// Package main is a command line client logging sets of a training day
// against a remote fitcoach backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/logging"
	"github.com/2beens/fitcoach/internal/training/apiclient"
	"github.com/2beens/fitcoach/internal/training/setlog"
)

// withEngine logs in, loads the day and hands the engine to fn. The session
// token is released when fn returns.
func withEngine(c *cli.Context, fn func(ctx context.Context, engine *setlog.Engine) error) error {
	loc, err := time.LoadLocation(c.String("timezone"))
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	ctx := c.Context
	client, err := apiclient.Login(ctx, c.String("base-url"), auth.Credentials{
		Username: c.String("username"),
		Password: c.String("password"),
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer func() {
		if err := client.Logout(context.Background()); err != nil {
			log.Warnf("logout: %s", err)
		}
	}()

	authCtx := client.AuthContext()
	if c.IsSet("client") {
		authCtx.ClientID = c.Int64("client")
	}

	engine := setlog.New(client, authCtx, c.Int64("day"), setlog.WithLocation(loc))
	if err := engine.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, engine)
}

func show(c *cli.Context) error {
	return withEngine(c, func(_ context.Context, engine *setlog.Engine) error {
		return printView(c, engine.View())
	})
}

func logSet(c *cli.Context) error {
	exerciseID := c.Int64("exercise")
	setNumber := c.Int("set")
	return withEngine(c, func(ctx context.Context, engine *setlog.Engine) error {
		if c.Bool("bodyweight") {
			if err := engine.SetBodyweight(exerciseID, true); err != nil {
				return err
			}
		}
		if err := showSlot(engine, exerciseID, setNumber); err != nil {
			return err
		}
		if err := engine.SetDraft(exerciseID, setNumber, c.String("reps"), c.String("weight")); err != nil {
			return err
		}
		rec, err := engine.Commit(ctx, exerciseID, setNumber)
		if err != nil && !errors.Is(err, setlog.ErrStale) {
			return err
		}
		if err != nil {
			log.Warnf("set logged, day view may be outdated: %s", err)
		}
		log.Infof("logged set %d of exercise %d [record %d]", rec.SetNumber, exerciseID, rec.ID)
		return printView(c, engine.View())
	})
}

// showSlot adds slots until setNumber is shown. Only the slot right after the
// last shown one can be added.
func showSlot(engine *setlog.Engine, exerciseID int64, setNumber int) error {
	// an exercise without history and sets may need two adds for its second slot
	for range 3 {
		exView, ok := engine.View().Exercise(exerciseID)
		if !ok {
			return fmt.Errorf("%w: %d", setlog.ErrUnknownExercise, exerciseID)
		}
		shown := len(exView.Slots)
		if setNumber <= shown {
			return nil
		}
		if setNumber > shown+1 {
			return fmt.Errorf("set %d cannot be added, log set %d first", setNumber, shown)
		}

		added, err := engine.AddSlot(exerciseID)
		if err != nil {
			return err
		}
		if !added {
			return fmt.Errorf("set %d cannot be added, set %d holds an unsaved draft", setNumber, shown)
		}
	}
	return fmt.Errorf("set %d of exercise %d is not shown", setNumber, exerciseID)
}

func addSlot(c *cli.Context) error {
	exerciseID := c.Int64("exercise")
	return withEngine(c, func(_ context.Context, engine *setlog.Engine) error {
		added, err := engine.AddSlot(exerciseID)
		if err != nil {
			return err
		}
		if !added {
			log.Warnf("no slot added, the last slot of exercise %d holds a draft", exerciseID)
		}
		return printView(c, engine.View())
	})
}

func deleteSet(c *cli.Context) error {
	exerciseID := c.Int64("exercise")
	setNumber := c.Int("set")
	return withEngine(c, func(ctx context.Context, engine *setlog.Engine) error {
		if err := engine.Delete(ctx, exerciseID, setNumber); err != nil {
			return err
		}
		return printView(c, engine.View())
	})
}

func complete(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, engine *setlog.Engine) error {
		if err := engine.ToggleCompletion(ctx, !c.Bool("undo")); err != nil {
			return err
		}
		return printView(c, engine.View())
	})
}

func printView(c *cli.Context, view setlog.DayView) error {
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return renderView(c.App.Writer, view)
}

func slotFlags() []cli.Flag {
	return []cli.Flag{
		exerciseFlag(),
		&cli.IntFlag{
			Name:     "set",
			Aliases:  []string{"s"},
			Required: true,
			Usage:    "set number, starting at 1",
		},
	}
}

func exerciseFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:     "exercise",
		Aliases:  []string{"e"},
		Required: true,
		Usage:    "exercise assignment id",
	}
}

func main() {
	app := &cli.App{
		Name:     "setlog",
		HelpName: "setlog",
		Usage:    "log the sets of a training day",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Value:   "http://localhost:9000",
				Usage:   "fitcoach backend URL",
				EnvVars: []string{"FITCOACH_URL"},
			},
			&cli.StringFlag{
				Name:     "username",
				Required: true,
				Usage:    "account username",
				EnvVars:  []string{"FITCOACH_USERNAME"},
			},
			&cli.StringFlag{
				Name:     "password",
				Required: true,
				Usage:    "account password",
				EnvVars:  []string{"FITCOACH_PASSWORD"},
			},
			&cli.Int64Flag{
				Name:     "day",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "workout day id",
			},
			&cli.Int64Flag{
				Name:  "client",
				Usage: "client id to act for (trainers only)",
			},
			&cli.StringFlag{
				Name:    "timezone",
				Value:   "Local",
				Usage:   "time zone of the training day",
				EnvVars: []string{"FITCOACH_TIMEZONE"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the day view as json",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			log.Errorf("%s: %s", c.App.Name, err)
		},
		Before: func(c *cli.Context) error {
			log.SetOutput(c.App.ErrWriter)
			log.SetLevel(logging.GetLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "show the training day",
				Action: show,
			},
			{
				Name:  "log",
				Usage: "log one set",
				Flags: append(slotFlags(),
					&cli.StringFlag{
						Name:     "reps",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "repetitions",
					},
					&cli.StringFlag{
						Name:    "weight",
						Aliases: []string{"w"},
						Usage:   "weight, a comma works as decimal separator",
					},
					&cli.BoolFlag{
						Name:  "bodyweight",
						Usage: "log the set without added weight",
					},
				),
				Action: logSet,
			},
			{
				Name:   "add-slot",
				Usage:  "show one more set slot of an exercise",
				Flags:  []cli.Flag{exerciseFlag()},
				Action: addSlot,
			},
			{
				Name:   "delete",
				Usage:  "delete one logged set",
				Flags:  slotFlags(),
				Action: deleteSet,
			},
			{
				Name:  "complete",
				Usage: "mark the training day complete",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "undo",
						Usage: "mark the training day incomplete again",
					},
				},
				Action: complete,
			},
		},
	}
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
