package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/backoffice"
	"github.com/institut/vitrine/internal/browse"
)

func pageFlag() cli.Flag {
	return &cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "page to show, starting at 1"}
}

func formationsCommand() *cli.Command {
	return &cli.Command{
		Name:    "formations",
		Aliases: []string{"f"},
		Usage:   "browse and administer formations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list active formations",
				Flags: []cli.Flag{pageFlag(), &cli.StringFlag{Name: "category", Usage: "only this category"}},
				Action: func(c *cli.Context) error {
					return listFormations(c, listing{filter: c.String("category"), page: c.Int("page") - 1})
				},
			},
			{
				Name:      "search",
				Usage:     "search active formations",
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{pageFlag()},
				Action: func(c *cli.Context) error {
					return listFormations(c, listing{query: c.Args().First(), page: c.Int("page") - 1})
				},
			},
			{
				Name:      "show",
				Usage:     "show an active formation by slug",
				ArgsUsage: "<slug>",
				Action:    showFormation,
			},
			{
				Name:  "admin",
				Usage: "list every formation, active or not",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.StringFlag{Name: "status", Value: "all", Usage: "all, active or inactive"},
					&cli.StringFlag{Name: "q", Usage: "search query"},
				},
				Action: adminFormations,
			},
			{
				Name:      "create",
				Usage:     "create a formation, uploading its photos first",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "nom", Required: true},
					&cli.StringFlag{Name: "description", Required: true},
					&cli.StringFlag{Name: "duree", Required: true},
					&cli.Float64Flag{Name: "frais", Usage: "registration fee"},
					&cli.Float64Flag{Name: "prix"},
					&cli.StringFlag{Name: "categorie", Required: true},
					&cli.IntFlag{Name: "places", Value: 15},
					&cli.StringFlag{Name: "slug"},
					&cli.StringFlag{Name: "photo", Usage: "main photo file"},
					&cli.StringSliceFlag{Name: "gallery", Usage: "gallery photo file, repeatable"},
				},
				Action: createFormation,
			},
			{
				Name:      "delete",
				Usage:     "soft-delete a formation",
				ArgsUsage: "<id>",
				Action:    deleteFormation,
			},
			{
				Name:      "reactivate",
				Usage:     "set a formation active again",
				ArgsUsage: "<id>",
				Action:    reactivateFormation,
			},
		},
	}
}

func listFormations(c *cli.Context, l listing) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	b := browse.New[dto.FormationListDto](e.api.Formations(), browse.Options[dto.FormationListDto]{
		PageSize: e.cfg.Client.FormationPageSize,
		Messages: browse.FormationMessages,
	})
	defer b.Close()

	s := load(c.Context, b, l)
	return render(e.out, b, s, "ID\tSLUG\tNOM\tCATÉGORIE\tPRIX\tPLACES", func(f dto.FormationListDto) string {
		return fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%d/%d", f.ID, f.Slug, f.Nom, f.Categorie, money(f.Prix), f.PlacesRestantes, f.NombrePlaces)
	})
}

func adminFormations(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	b := browse.New[dto.FormationAdminDto](e.api.AdminFormations(), browse.Options[dto.FormationAdminDto]{
		PageSize: e.cfg.Client.AdminPageSize,
		Messages: browse.FormationMessages,
	})
	defer b.Close()

	s := load(c.Context, b, listing{query: c.String("q"), filter: c.String("status"), page: c.Int("page") - 1})
	return render(e.out, b, s, "ID\tSLUG\tNOM\tACTIVE\tVUES\tMODIFIÉE PAR", func(f dto.FormationAdminDto) string {
		by := f.AdminModificateur
		if by == "" {
			by = f.AdminCreateur
		}
		return fmt.Sprintf("%d\t%s\t%s\t%s\t%d\t%s", f.ID, f.Slug, f.Nom, yesNo(f.Active), f.NombreVues, by)
	})
}

func showFormation(c *cli.Context) error {
	slug := c.Args().First()
	if slug == "" {
		return cli.Exit("slug manquant", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	f, err := e.api.Formations().GetBySlug(c.Context, slug)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(e.out, "%s (%s)\n", f.Nom, f.Slug)
	fmt.Fprintf(e.out, "Catégorie: %s\nDurée: %s\n", f.Categorie, f.Duree)
	fmt.Fprintf(e.out, "Inscription: %s  Prix: %s", money(f.FraisInscription), money(f.Prix))
	if f.PrixAvecReduction != nil {
		fmt.Fprintf(e.out, "  Promo: %s (-%s%%)", money(*f.PrixAvecReduction), money(f.PourcentageReduction))
	}
	fmt.Fprintf(e.out, "\nPlaces restantes: %d/%d\n", f.PlacesRestantes, f.NombrePlaces)
	if f.MessageSocialProof != "" {
		fmt.Fprintln(e.out, f.MessageSocialProof)
	}
	fmt.Fprintf(e.out, "\n%s\n", f.Description)
	return nil
}

func createFormation(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	form := backoffice.NewFormationForm()
	form.Draft.Nom = c.String("nom")
	form.Draft.Description = c.String("description")
	form.Draft.Duree = c.String("duree")
	form.Draft.FraisInscription = c.Float64("frais")
	form.Draft.Prix = c.Float64("prix")
	form.Draft.Categorie = c.String("categorie")
	form.Draft.NombrePlaces = c.Int("places")
	form.Draft.Slug = c.String("slug")

	if path := c.String("photo"); path != "" {
		f, closer, err := openImage(path)
		if err != nil {
			return err
		}
		defer closer.Close()
		form.MainPhoto = f
	}
	for _, path := range c.StringSlice("gallery") {
		f, closer, err := openImage(path)
		if err != nil {
			return err
		}
		defer closer.Close()
		form.GalleryPhotos = append(form.GalleryPhotos, *f)
	}

	admin := backoffice.NewFormationAdmin(e.api.AdminFormations(), nil, e.confirm, e.uploader)
	msg, err := admin.Create(c.Context, form)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(e.out, msg)
	return nil
}

func deleteFormation(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	admin := backoffice.NewFormationAdmin(e.api.AdminFormations(), nil, e.confirm, nil)
	deleted, err := admin.Delete(c.Context, id)
	if err != nil {
		return fail(err)
	}
	if deleted {
		fmt.Fprintf(e.out, "Formation %d supprimée.\n", id)
	}
	return nil
}

func reactivateFormation(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	admin := backoffice.NewFormationAdmin(e.api.AdminFormations(), nil, e.confirm, nil)
	if err := admin.Reactivate(c.Context, id); err != nil {
		return fail(err)
	}
	fmt.Fprintf(e.out, "Formation %d réactivée.\n", id)
	return nil
}

func idArg(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Exit("identifiant invalide: "+c.Args().First(), 2)
	}
	return id, nil
}
