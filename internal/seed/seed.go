package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appModels "github.com/institut/vitrine/internal/app/models"
	appRepos "github.com/institut/vitrine/internal/app/repositories"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

const seedAdmin = "seed"

func defaultFormations(now time.Time) []appModels.Formation {
	promoStart, promoEnd := now.AddDate(0, 0, -3), now.AddDate(0, 1, 0)
	return []appModels.Formation{
		{
			Nom: "Pâtisserie française", Categorie: "Cuisine", Duree: "3 mois",
			Description:      "Apprenez les bases de la pâtisserie française : pâte à choux, crèmes et entremets.",
			FraisInscription: 5000, Prix: 45000, CertificatDelivre: true, NomCertificat: "Certificat de pâtisserie",
			Horaires: "Lundi au vendredi, 8h - 12h", Frequence: "5 jours par semaine",
			NombrePlaces: 15, NombreInscritsAffiche: 11, SocialProofActif: true,
			EnPromotion: true, PourcentageReduction: 20, DateDebutPromo: &promoStart, DateFinPromo: &promoEnd,
			Active: true,
		},
		{
			Nom: "Couture et stylisme", Categorie: "Mode", Duree: "6 mois",
			Description:      "Patronage, coupe et finitions pour réaliser des vêtements sur mesure.",
			FraisInscription: 10000, Prix: 60000, CertificatDelivre: true, NomCertificat: "Certificat de couture",
			NombrePlaces: 12, NombreInscritsAffiche: 12, SocialProofActif: true,
			Active: true,
		},
		{
			Nom: "Coiffure et tresses", Categorie: "Beauté", Duree: "2 mois",
			Description:      "Techniques de tressage, soins capillaires et coiffures de cérémonie.",
			FraisInscription: 5000, Prix: 30000, CertificatDelivre: true,
			NombrePlaces: 20, NombreInscritsAffiche: 4,
			Active: true,
		},
		{
			Nom: "Cuisine traditionnelle", Categorie: "Cuisine", Duree: "1 mois",
			Description:      "Recettes du terroir, hygiène alimentaire et organisation d'une cuisine.",
			FraisInscription: 2500, Prix: 20000,
			NombrePlaces: 10, NombreInscritsAffiche: 0,
			Active: false,
		},
	}
}

func defaultImages() []appModels.GalleryImage {
	return []appModels.GalleryImage{
		{Titre: "Remise des diplômes", URL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Categorie: appModels.CategoryEvenement, IsPublic: true},
		{Titre: "Nos locaux", URL: "https://res.cloudinary.com/demo/image/upload/couple.jpg", Categorie: appModels.CategoryInstitut, IsPublic: true},
		{Titre: "Atelier pâtisserie", URL: "https://res.cloudinary.com/demo/image/upload/food.jpg", Categorie: appModels.CategoryFormation, IsPublic: true},
		{Titre: "Préparation du gala", URL: "https://res.cloudinary.com/demo/image/upload/lady.jpg", Categorie: appModels.CategoryEvenement, IsPublic: false},
	}
}

// CreateDefaultData fills an empty catalog with sample formations and gallery images.
// A catalog that already holds formations is left untouched.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	_, total, err := repos.FormationRepository.List(ctx, appRepos.FormationQuery{Page: 0, Size: 1, Visibility: appModels.VisibilityAll})
	if err != nil {
		return fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if total > 0 {
		lgr.Info().Int64("formations", total).Msg("Catalog already populated, skipping default data")
		return nil
	}

	lgr.Info().Msg("Creating default data (formations, gallery)...")
	var finalErr error
	var firstID int64

	for _, f := range defaultFormations(time.Now().UTC()) {
		f := f
		f.Slug = helpers.Slugify(f.Nom, 0)
		f.AdminCreateur, f.AdminModificateur = seedAdmin, seedAdmin
		if err := repos.FormationRepository.Create(ctx, &f); err != nil {
			if errors.Is(err, appRepos.ErrSlugTaken) {
				continue
			}
			lgr.Error().Err(err).Str("slug", f.Slug).Msg("Error creating default formation")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if firstID == 0 {
			firstID = f.ID
		}
	}

	for _, img := range defaultImages() {
		img := img
		if img.Categorie == appModels.CategoryFormation && firstID > 0 {
			id := firstID
			img.FormationID = &id
		}
		if err := repos.GalleryRepository.Create(ctx, &img); err != nil {
			lgr.Error().Err(err).Str("titre", img.Titre).Msg("Error creating default gallery image")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check complete")
	return finalErr
}
