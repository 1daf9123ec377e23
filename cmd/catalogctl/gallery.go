package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/backoffice"
	"github.com/institut/vitrine/internal/browse"
)

func galleryCommand() *cli.Command {
	return &cli.Command{
		Name:    "gallery",
		Aliases: []string{"g"},
		Usage:   "browse and administer gallery images",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list gallery images",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.StringFlag{Name: "category", Usage: "FORMATION, EVENEMENT or INSTITUT"},
					&cli.StringFlag{Name: "formation", Usage: "formation name to search for"},
					&cli.BoolFlag{Name: "all", Usage: "include private images"},
				},
				Action: listGallery,
			},
			{
				Name:   "home",
				Usage:  "show the images of the home page",
				Action: homeImages,
			},
			{
				Name:      "upload",
				Usage:     "upload an image and add it to the gallery",
				ArgsUsage: "<file>",
				Flags:     append(imageFlags(), &cli.StringFlag{Name: "categorie", Value: "EVENEMENT"}, &cli.BoolFlag{Name: "public", Value: true}),
				Action:    uploadImage,
			},
			{
				Name:      "edit",
				Usage:     "edit an image, optionally replacing its file",
				ArgsUsage: "<id>",
				Flags: append(imageFlags(),
					&cli.StringFlag{Name: "categorie"},
					&cli.BoolFlag{Name: "public"},
					&cli.StringFlag{Name: "file", Usage: "replacement image file"},
				),
				Action: editImage,
			},
			{
				Name:      "delete",
				Usage:     "delete an image",
				ArgsUsage: "<id>",
				Action:    deleteImage,
			},
		},
	}
}

func imageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "titre"},
		&cli.StringFlag{Name: "description"},
		&cli.Int64Flag{Name: "formation-id"},
	}
}

func listGallery(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	var src browse.Source[dto.GalleryImageDto] = e.api.Gallery()
	size := e.cfg.Client.GalleryPageSize
	if c.Bool("all") {
		src = e.api.AdminGallery()
		size = e.cfg.Client.AdminPageSize
	}
	b := browse.New(src, browse.Options[dto.GalleryImageDto]{PageSize: size, Messages: browse.GalleryMessages})
	defer b.Close()

	s := load(c.Context, b, listing{query: c.String("formation"), filter: c.String("category"), page: c.Int("page") - 1})
	return render(e.out, b, s, "ID\tTITRE\tCATÉGORIE\tPUBLIQUE\tFORMATION\tURL", galleryRow)
}

func galleryRow(img dto.GalleryImageDto) string {
	formation := "-"
	if img.Formation != nil {
		formation = img.Formation.Nom
	}
	return fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s", img.ID, img.Titre, img.Categorie, yesNo(img.IsPublic), formation, img.URL)
}

func homeImages(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	images, err := e.api.Gallery().HomeImages(c.Context)
	if err != nil {
		return fail(err)
	}
	if len(images) == 0 {
		fmt.Fprintln(e.out, browse.GalleryMessages.Empty)
		return nil
	}
	for _, img := range images {
		fmt.Fprintf(e.out, "%s\t%s\n", img.Titre, img.URL)
	}
	return nil
}

func uploadImage(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit(backoffice.MsgSelectImage, 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	f, closer, err := openImage(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	form := backoffice.NewGalleryForm()
	form.Titre = c.String("titre")
	form.Description = c.String("description")
	form.Categorie = c.String("categorie")
	form.IsPublic = c.Bool("public")
	if id := c.Int64("formation-id"); id > 0 {
		form.FormationID = &id
	}
	form.File = f

	return submitImage(c, e, form)
}

func editImage(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	admin := backoffice.NewGalleryAdmin(e.api.AdminGallery(), nil, e.confirm, e.uploader)
	form, err := admin.LoadForEdit(c.Context, id)
	if err != nil {
		return fail(err)
	}
	if c.IsSet("titre") {
		form.Titre = c.String("titre")
	}
	if c.IsSet("description") {
		form.Description = c.String("description")
	}
	if c.IsSet("categorie") {
		form.Categorie = c.String("categorie")
	}
	if c.IsSet("public") {
		form.IsPublic = c.Bool("public")
	}
	if c.IsSet("formation-id") {
		fid := c.Int64("formation-id")
		form.FormationID = &fid
		if fid <= 0 {
			form.FormationID = nil
		}
	}
	if path := c.String("file"); path != "" {
		f, closer, err := openImage(path)
		if err != nil {
			return err
		}
		defer closer.Close()
		form.File = f
	}

	return submitImage(c, e, form)
}

func submitImage(c *cli.Context, e *env, form *backoffice.GalleryForm) error {
	admin := backoffice.NewGalleryAdmin(e.api.AdminGallery(), nil, e.confirm, e.uploader)
	msg, err := admin.Submit(c.Context, form)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(e.out, msg)
	return nil
}

func deleteImage(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	admin := backoffice.NewGalleryAdmin(e.api.AdminGallery(), nil, e.confirm, nil)
	deleted, err := admin.Delete(c.Context, id)
	if err != nil {
		return fail(err)
	}
	if deleted {
		fmt.Fprintf(e.out, "Image %d supprimée.\n", id)
	}
	return nil
}
