// favctl is a command line front end for a favtrack server. It keeps its
// session in ~/.config/favtrack/session.toml, so a login persists across
// invocations until `favctl logout` or until the server rejects the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"favtrack/pkg/client"
)

const defaultServerURL = "http://localhost:8080"

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	app := &cli.Command{
		Name:    "favctl",
		Usage:   "Track favorite movies and TV shows",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "Base URL of the favtrack server",
			},
		},
		Commands: []*cli.Command{
			signupCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			listCommand(),
			addCommand(),
			showCommand(),
			editCommand(),
			rmCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}

// apiClient restores the persisted session into a fresh client.
func apiClient(cmd *cli.Command) (*client.Client, *sessionFile, error) {
	sess, err := loadSession()
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	base := cmd.String("server")
	if base == "" {
		base = sess.ServerURL
	}
	if base == "" {
		base = defaultServerURL
	}
	sess.ServerURL = base

	c := client.New(base)
	if sess.Token != "" {
		c.Session().SetToken(sess.Token)
	}
	return c, sess, nil
}

// finish persists or clears the session file depending on whether the
// client still holds a token after the command ran.
func finish(c *client.Client, sess *sessionFile, err error) error {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNoSession) {
		_ = clearSession()
		return fmt.Errorf("%w (run `favctl login`)", err)
	}
	if c.Session().Authenticated() {
		sess.Token = c.Session().Token()
		if u := c.Session().User(); u != nil {
			sess.Email = u.Email
		}
		if saveErr := saveSession(sess); saveErr != nil && err == nil {
			return fmt.Errorf("save session: %w", saveErr)
		}
	}
	return err
}

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account and log in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Login email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Password (min 6 chars)", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			user, err := c.Signup(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"))
			if err == nil {
				logger.Info("signed up", "email", user.Email, "id", user.ID)
			}
			return finish(c, sess, err)
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in with email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Login email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			user, err := c.Login(ctx, cmd.String("email"), cmd.String("password"))
			if err == nil {
				logger.Info("logged in", "email", user.Email)
			}
			return finish(c, sess, err)
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Drop the stored session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := clearSession(); err != nil {
				return err
			}
			logger.Info("logged out")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Verify the stored token and show the current user",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			user, err := c.Verify(ctx)
			if err == nil {
				fmt.Printf("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
			}
			return finish(c, sess, err)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List favorites, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Page size (1-50)", Value: 10},
			&cli.IntFlag{Name: "pages", Usage: "Number of pages to fetch, 0 for all", Value: 0},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			pager := c.NewPager(int(cmd.Int("limit")))
			maxPages := int(cmd.Int("pages"))
			for page := 0; pager.HasMore() && (maxPages == 0 || page < maxPages); page++ {
				if _, err := pager.LoadMore(ctx); err != nil {
					return finish(c, sess, err)
				}
			}
			for _, fav := range pager.Items() {
				fmt.Println(formatFavorite(fav))
			}
			fmt.Printf("%d of %d shown\n", len(pager.Items()), pager.Total())
			return finish(c, sess, nil)
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a favorite",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Title", Required: true},
			&cli.StringFlag{Name: "type", Usage: "movie or tv", Required: true},
		}, optionalFieldFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			in := favoriteInput(cmd)
			title := cmd.String("title")
			kind := cmd.String("type")
			in.Title = &title
			in.Type = &kind
			fav, err := c.CreateFavorite(ctx, in)
			if err == nil {
				logger.Info("added", "id", fav.ID, "title", fav.Title)
			}
			return finish(c, sess, err)
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one favorite",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			fav, err := c.GetFavorite(ctx, id)
			if err == nil {
				fmt.Println(formatFavorite(*fav))
			}
			return finish(c, sess, err)
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Update fields of a favorite",
		ArgsUsage: "<id>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Title"},
			&cli.StringFlag{Name: "type", Usage: "movie or tv"},
		}, optionalFieldFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			in := favoriteInput(cmd)
			if cmd.IsSet("title") {
				title := cmd.String("title")
				in.Title = &title
			}
			if cmd.IsSet("type") {
				kind := cmd.String("type")
				in.Type = &kind
			}
			fav, err := c.UpdateFavorite(ctx, id, in)
			if err == nil {
				logger.Info("updated", "id", fav.ID, "title", fav.Title)
			}
			return finish(c, sess, err)
		},
	}
}

func rmCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a favorite",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, sess, err := apiClient(cmd)
			if err != nil {
				return err
			}
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			err = c.DeleteFavorite(ctx, id)
			if err == nil {
				logger.Info("deleted", "id", id)
			}
			return finish(c, sess, err)
		},
	}
}

func optionalFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "year", Usage: "Release year"},
		&cli.Float64Flag{Name: "rating", Usage: "Rating 0-10"},
		&cli.StringFlag{Name: "director", Usage: "Director"},
		&cli.IntFlag{Name: "duration", Usage: "Duration in minutes"},
		&cli.StringFlag{Name: "description", Usage: "Free-text description"},
		&cli.StringFlag{Name: "location", Usage: "Filming location"},
		&cli.Float64Flag{Name: "budget", Usage: "Budget"},
	}
}

// favoriteInput collects the optional field flags that were actually set.
func favoriteInput(cmd *cli.Command) client.FavoriteInput {
	var in client.FavoriteInput
	if cmd.IsSet("year") {
		v := int(cmd.Int("year"))
		in.Year = &v
	}
	if cmd.IsSet("rating") {
		v := cmd.Float64("rating")
		in.Rating = &v
	}
	if cmd.IsSet("director") {
		v := cmd.String("director")
		in.Director = &v
	}
	if cmd.IsSet("duration") {
		v := int(cmd.Int("duration"))
		in.DurationMinutes = &v
	}
	if cmd.IsSet("description") {
		v := cmd.String("description")
		in.Description = &v
	}
	if cmd.IsSet("location") {
		v := cmd.String("location")
		in.Location = &v
	}
	if cmd.IsSet("budget") {
		v := cmd.Float64("budget")
		in.Budget = &v
	}
	return in
}

func argID(cmd *cli.Command) (uint, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return 0, errors.New("favorite id required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func formatFavorite(f client.Favorite) string {
	line := fmt.Sprintf("#%d [%s] %s", f.ID, f.Type, f.Title)
	if f.Year != nil {
		line += fmt.Sprintf(" (%d)", *f.Year)
	}
	if f.Rating != nil {
		line += fmt.Sprintf(" %.1f/10", *f.Rating)
	}
	return line
}
