package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	userdb "github.com/Black-And-White-Club/fitcomp/app/modules/user/infrastructure/repositories"
	workoutdomain "github.com/Black-And-White-Club/fitcomp/app/modules/workout/domain"
	workouttime "github.com/Black-And-White-Club/fitcomp/app/modules/workout/time_utils"
	"github.com/Black-And-White-Club/fitcomp/pkg/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var competitionFlag = &cli.StringFlag{
	Name:     "competition",
	Usage:    "competition id",
	Required: true,
}

func recomputeCommand() *cli.Command {
	return &cli.Command{
		Name:  "recompute",
		Usage: "reconcile stored points with current goals",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "competition", Usage: "recompute every member workout inside the competition window"},
			&cli.StringSliceFlag{Name: "user", Usage: "restrict a competition recompute to these user ids"},
			&cli.StringFlag{Name: "workout", Usage: "recompute a single workout"},
			&cli.BoolFlag{Name: "async", Usage: "queue a --workout recompute for the server's scoring workers"},
		},
		Before: validateRecomputeFlags,
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			if c.IsSet("workout") {
				id, err := parseID("workout", c.String("workout"))
				if err != nil {
					return err
				}
				if c.Bool("async") {
					if err := rt.scoring.QueueService.EnqueueWorkoutRecompute(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Queued recompute of workout %s\n", id)
					return nil
				}
				if err := rt.scoring.ScoringService.RecomputeWorkout(c.Context, id); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Recomputed workout %s\n", id)
				return nil
			}

			id, err := parseID("competition", c.String("competition"))
			if err != nil {
				return err
			}
			var userIDs []uuid.UUID
			for _, raw := range c.StringSlice("user") {
				uid, err := parseID("user", raw)
				if err != nil {
					return err
				}
				userIDs = append(userIDs, uid)
			}
			n, err := rt.scoring.ScoringService.RecomputeCompetition(c.Context, id, userIDs)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Recomputed %d workouts of competition %s\n", n, id)
			return nil
		}),
	}
}

// validateRecomputeFlags rejects flag combinations before any connection is opened.
func validateRecomputeFlags(c *cli.Context) error {
	switch {
	case c.IsSet("workout") && c.IsSet("competition"):
		return errors.New("pass either --workout or --competition, not both")
	case !c.IsSet("workout") && !c.IsSet("competition"):
		return errors.New("one of --workout or --competition is required")
	case c.Bool("async") && !c.IsSet("workout"):
		return errors.New("--async applies to --workout only")
	case c.IsSet("user") && !c.IsSet("competition"):
		return errors.New("--user applies to --competition only")
	}
	return nil
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print competition statistics as JSON",
		Flags: []cli.Flag{competitionFlag},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			id, err := parseID("competition", c.String("competition"))
			if err != nil {
				return err
			}
			stats, err := rt.leaderboard.LeaderboardService.GetCompetitionStats(c.Context, id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write both leaderboards to an XLSX workbook",
		Flags: []cli.Flag{
			competitionFlag,
			&cli.StringFlag{Name: "out", Value: "leaderboard.xlsx", Usage: "output file"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			id, err := parseID("competition", c.String("competition"))
			if err != nil {
				return err
			}
			data, err := rt.leaderboard.LeaderboardService.ExportLeaderboard(c.Context, id)
			if err != nil {
				return err
			}
			return writeOutput(c.String("out"), data)
		}),
	}
}

func chartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "render cumulative points per member as PNG",
		Flags: []cli.Flag{
			competitionFlag,
			&cli.StringFlag{Name: "out", Value: "chart.png", Usage: "output file"},
		},
		Action: withRuntime(func(c *cli.Context, rt *runtime) error {
			id, err := parseID("competition", c.String("competition"))
			if err != nil {
				return err
			}
			data, err := rt.leaderboard.LeaderboardService.RenderChart(c.Context, id)
			if err != nil {
				return err
			}
			return writeOutput(c.String("out"), data)
		}),
	}
}

func workoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "workout",
		Usage: "manual workout entry",
		Subcommands: []*cli.Command{
			{
				Name:  "log",
				Usage: "log a workout and score it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true, Usage: "user id or username"},
					&cli.StringFlag{Name: "sport", Required: true, Usage: "sport type, e.g. Run"},
					&cli.StringFlag{Name: "start", Required: true, Usage: `start time, e.g. "yesterday 7am" or RFC 3339`},
					&cli.DurationFlag{Name: "duration", Required: true, Usage: "moving time, e.g. 45m"},
					&cli.IntFlag{Name: "intensity", Usage: "1 (easy) to 4 (all out)"},
					&cli.StringFlag{Name: "kcal", Usage: "energy burned; derived when omitted"},
					&cli.StringFlag{Name: "distance", Usage: "distance in km"},
				},
				Action: withRuntime(logWorkout),
			},
		},
	}
}

// workoutInput is the raw flag input of "workout log". Empty strings and a
// nil intensity mean the flag was not given.
type workoutInput struct {
	Sport     string
	Start     string
	Duration  time.Duration
	Intensity *int
	Kcal      string
	Distance  string
}

// draft validates the input and turns it into a workout draft for userID.
func (in workoutInput) draft(userID uuid.UUID, starts *workouttime.StartParser) (workoutdomain.Draft, error) {
	start, err := starts.Parse(in.Start)
	if err != nil {
		return workoutdomain.Draft{}, fmt.Errorf("invalid --start: %w", err)
	}

	d := workoutdomain.Draft{
		UserID:    userID,
		SportType: workoutdomain.SportType(in.Sport),
		StartedAt: start,
		Duration:  in.Duration,
	}
	if in.Intensity != nil {
		i := workoutdomain.Intensity(*in.Intensity)
		d.Intensity = &i
	}
	if d.Kcal, err = optionalDecimal("kcal", in.Kcal); err != nil {
		return workoutdomain.Draft{}, err
	}
	if d.DistanceKm, err = optionalDecimal("distance", in.Distance); err != nil {
		return workoutdomain.Draft{}, err
	}
	return d, nil
}

func logWorkout(c *cli.Context, rt *runtime) error {
	u, err := resolveUser(c, rt, c.String("user"))
	if err != nil {
		return err
	}

	in := workoutInput{
		Sport:    c.String("sport"),
		Start:    c.String("start"),
		Duration: c.Duration("duration"),
		Kcal:     c.String("kcal"),
		Distance: c.String("distance"),
	}
	if c.IsSet("intensity") {
		i := c.Int("intensity")
		in.Intensity = &i
	}
	draft, err := in.draft(u.ID, workouttime.NewStartParser(rt.loc, clock.Real{}))
	if err != nil {
		return err
	}

	w, err := rt.workouts.WorkoutService.CreateWorkout(c.Context, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Logged workout %s for %s: %s at %s, %s, %s kcal\n",
		w.ID, u.Username, w.SportType, w.StartedAt.In(rt.loc).Format(time.RFC3339), w.Duration, w.Kcal.StringFixed(1))
	return nil
}

func resolveUser(c *cli.Context, rt *runtime, ref string) (*userdb.User, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return rt.users.Repository.GetByID(c.Context, nil, id)
	}
	u, err := rt.users.Repository.GetByUsername(c.Context, nil, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve user %q: %w", ref, err)
	}
	return u, nil
}

func optionalDecimal(name, raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, raw, err)
	}
	return id, nil
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(data), path)
	return nil
}
