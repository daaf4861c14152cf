package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/pkg/models"
)

// NewStores wires the repositories as dictionary collaborators
func NewStores(db *sqlx.DB) dictionary.Stores {
	return dictionary.Stores{
		Items:   NewTranslationRepository(db),
		Answers: NewAnswerRepository(db),
		Labels:  NewLabelRepository(db),
	}
}

// StarterVocabulary is a small Spanish word list for a fresh database
func StarterVocabulary() []models.Translation {
	pairs := [][2]string{
		{"Los colores", "colors"},
		{"amarillo", "yellow"},
		{"azul", "blue"},
		{"azul marino", "navy blue"},
		{"beige", "beige"},
		{"blanco", "white"},
		{"dorado", "gold"},
		{"fucsia", "fuchsia"},
		{"gris", "grey"},
		{"marrón", "brown"},
		{"naranja", "orange"},
		{"negro", "black"},
		{"plateado", "silver"},
		{"rojo", "red"},
		{"rosa", "pink"},
		{"verde", "green"},
		{"morado", "purple"},
	}
	translations := make([]models.Translation, len(pairs))
	for i, p := range pairs {
		translations[i] = models.NewTranslation(p[0], p[1])
	}
	return translations
}

// Seed inserts the starter vocabulary, skipping pairs that already exist
func Seed(ctx context.Context, items dictionary.ItemStore) error {
	return items.Insert(ctx, StarterVocabulary())
}
