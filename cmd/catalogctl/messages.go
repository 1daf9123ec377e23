package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/browse"
	"github.com/institut/vitrine/internal/enquiry"
)

func messagesCommand() *cli.Command {
	return &cli.Command{
		Name:    "messages",
		Aliases: []string{"m"},
		Usage:   "send the public forms and read received messages",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list received messages, newest first",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.StringFlag{Name: "type", Usage: "PRE_INSCRIPTION or CONTACT"},
					&cli.StringFlag{Name: "q", Usage: "search query"},
				},
				Action: listMessages,
			},
			{
				Name:  "pre-inscription",
				Usage: "pre-register to a formation",
				Flags: append(senderFlags(),
					&cli.Int64Flag{Name: "formation-id", Required: true},
					&cli.StringFlag{Name: "disponibilites"},
				),
				Action: sendPreInscription,
			},
			{
				Name:   "contact",
				Usage:  "send a contact message",
				Flags:  append(senderFlags(), &cli.StringFlag{Name: "sujet"}),
				Action: sendContact,
			},
		},
	}
}

func newsletterCommand() *cli.Command {
	return &cli.Command{
		Name:  "newsletter",
		Usage: "manage the newsletter",
		Subcommands: []*cli.Command{
			{
				Name:      "subscribe",
				Usage:     "subscribe an address",
				ArgsUsage: "<email>",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "nom"}},
				Action:    subscribeNewsletter,
			},
		},
	}
}

func senderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "nom"},
		&cli.StringFlag{Name: "email"},
		&cli.StringFlag{Name: "telephone"},
		&cli.StringFlag{Name: "ville"},
		&cli.StringFlag{Name: "message"},
	}
}

func listMessages(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	b := browse.New[dto.MessageDto](e.api.AdminMessages(), browse.Options[dto.MessageDto]{
		PageSize: e.cfg.Client.AdminPageSize,
		Messages: browse.InboxMessages,
	})
	defer b.Close()

	s := load(c.Context, b, listing{query: c.String("q"), filter: c.String("type"), page: c.Int("page") - 1})
	return render(e.out, b, s, "ID\tDATE\tTYPE\tNOM\tEMAIL\tFORMATION", func(m dto.MessageDto) string {
		formation := m.FormationNom
		if formation == "" {
			formation = "-"
		}
		return fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s", m.ID, m.DateCreation.Format("2006-01-02 15:04"), m.Type, m.Nom, m.Email, formation)
	})
}

func sendPreInscription(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	msg, err := enquiry.New(e.api.Messages()).PreInscription(c.Context, dto.PreInscriptionRequest{
		Nom:            c.String("nom"),
		Email:          c.String("email"),
		Telephone:      c.String("telephone"),
		Ville:          c.String("ville"),
		Disponibilites: c.String("disponibilites"),
		Message:        c.String("message"),
		FormationID:    c.Int64("formation-id"),
		SourceVisite:   "catalogctl",
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(e.out, msg)
	return nil
}

func sendContact(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	msg, err := enquiry.New(e.api.Messages()).Contact(c.Context, dto.ContactRequest{
		Nom:          c.String("nom"),
		Email:        c.String("email"),
		Telephone:    c.String("telephone"),
		Ville:        c.String("ville"),
		Sujet:        c.String("sujet"),
		Message:      c.String("message"),
		SourceVisite: "catalogctl",
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(e.out, msg)
	return nil
}

func subscribeNewsletter(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	msg, err := enquiry.New(e.api.Messages()).SubscribeNewsletter(c.Context, c.Args().First(), c.String("nom"))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(e.out, msg)
	return nil
}
