// Command catalogctl browses and administers the catalog from a terminal,
// through the same client, listing state and admin flows as the web front-end.
// It also sends the public forms and reads the messages they produce.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/institut/vitrine/internal/backoffice"
	"github.com/institut/vitrine/internal/client"
	"github.com/institut/vitrine/internal/config"
	"github.com/institut/vitrine/internal/pkg/assethost"
	"github.com/institut/vitrine/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "browse and administer the formation catalog and the gallery",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "configs/config.yaml", Usage: "path to the YAML configuration file"},
			&cli.StringFlag{Name: "api", EnvVars: []string{"CATALOG_API_URL"}, Usage: "API base URL, overrides client.base_url"},
			&cli.StringFlag{Name: "admin", Usage: "administrator name sent in X-Admin-User"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "answer yes to confirmations"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "silence logs"},
		},
		Commands: []*cli.Command{
			formationsCommand(),
			galleryCommand(),
			messagesCommand(),
			newsletterCommand(),
		},
	}
}

// env is what every command needs, built from the global flags.
type env struct {
	cfg      *config.Config
	api      *client.Client
	confirm  backoffice.Confirmer
	uploader assethost.Uploader
	out      io.Writer
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	level := logger.WarnLevel
	if c.Bool("quiet") {
		level = logger.DisabledLevel
	}
	logger.Configure(logger.Config{Level: level, Pretty: true, Output: c.App.ErrWriter})

	if api := c.String("api"); api != "" {
		cfg.Client.BaseURL = api
	}
	if admin := c.String("admin"); admin != "" {
		cfg.Client.AdminUser = admin
	}

	uploader, err := assethost.NewFromConfig(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("asset host: %w", err)
	}

	e := &env{
		cfg:      cfg,
		api:      client.NewFromConfig(cfg),
		uploader: uploader,
		out:      c.App.Writer,
	}
	if c.Bool("yes") {
		e.confirm = backoffice.ConfirmFunc(func(string) bool { return true })
	} else {
		e.confirm = promptConfirmer(c.App.Reader, c.App.Writer)
	}
	return e, nil
}

// promptConfirmer asks on in and accepts o, oui, y or yes.
func promptConfirmer(in io.Reader, out io.Writer) backoffice.Confirmer {
	reader := bufio.NewReader(in)
	return backoffice.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [o/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "oui", "y", "yes":
			return true
		}
		return false
	})
}

// openImage opens a local file for upload; the caller closes it.
func openImage(path string) (*assethost.File, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &assethost.File{Name: filepath.Base(path), ContentType: contentType(path), Content: f}, f, nil
}

func contentType(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + ext
	default:
		return "application/octet-stream"
	}
}

// fail turns an admin or client error into a CLI exit error carrying the
// message meant for the reader.
func fail(err error) error {
	if err == nil {
		return nil
	}
	msg := backoffice.MessageOf(err)
	var bErr *backoffice.Error
	if errors.As(err, &bErr) {
		for _, f := range bErr.Fields {
			msg += fmt.Sprintf("\n  - %s: %s", f.Field, f.Message)
		}
	} else if m := client.MessageOf(err); m != "" {
		msg = m
	}
	return cli.Exit(msg, 1)
}
