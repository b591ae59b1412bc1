package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/pocketstats/internal/model"
)

func TestDecodeFilters(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		want     model.Filters
		problems int
	}{
		{
			name:   "nothing stored",
			fields: map[string]string{},
			want:   model.DefaultFilters(),
		},
		{
			name:   "valid values",
			fields: map[string]string{"rarityFilter": `["◊","Crown Rare"]`, "numberFilter": "3"},
			want:   model.Filters{Rarity: []model.Rarity{model.RarityOneDiamond, model.RarityCrown}, Number: 3},
		},
		{
			name:   "empty rarity array",
			fields: map[string]string{"rarityFilter": `[]`, "numberFilter": "1"},
			want:   model.DefaultFilters(),
		},
		{
			name:     "rarity not json",
			fields:   map[string]string{"rarityFilter": `◊,◊◊`, "numberFilter": "2"},
			want:     model.Filters{Rarity: []model.Rarity{}, Number: 2},
			problems: 1,
		},
		{
			name:     "unknown tier",
			fields:   map[string]string{"rarityFilter": `["◊","Secret"]`},
			want:     model.DefaultFilters(),
			problems: 1,
		},
		{
			name:     "number not numeric",
			fields:   map[string]string{"numberFilter": "many"},
			want:     model.DefaultFilters(),
			problems: 1,
		},
		{
			name:     "number out of range",
			fields:   map[string]string{"rarityFilter": `null`, "numberFilter": "9"},
			want:     model.DefaultFilters(),
			problems: 1,
		},
		{
			name:     "both corrupted",
			fields:   map[string]string{"rarityFilter": `{`, "numberFilter": "-1"},
			want:     model.DefaultFilters(),
			problems: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, problems := decodeFilters(tt.fields)
			assert.Equal(t, tt.want, got)
			assert.Len(t, problems, tt.problems)
		})
	}
}

func TestEncodeFiltersDecodesBack(t *testing.T) {
	tests := []struct {
		name string
		in   model.Filters
		want model.Filters
	}{
		{
			name: "defaults",
			in:   model.DefaultFilters(),
			want: model.DefaultFilters(),
		},
		{
			name: "nil rarity is stored as no restriction",
			in:   model.Filters{Number: 2},
			want: model.Filters{Rarity: []model.Rarity{}, Number: 2},
		},
		{
			name: "every tier and the highest threshold",
			in:   model.Filters{Rarity: model.Rarities(), Number: model.MaxNumberFilter},
			want: model.Filters{Rarity: model.Rarities(), Number: model.MaxNumberFilter},
		},
		{
			name: "order is kept",
			in:   model.Filters{Rarity: []model.Rarity{model.RarityCrown, model.RarityOneDiamond, model.RarityTwoStar}, Number: 4},
			want: model.Filters{Rarity: []model.Rarity{model.RarityCrown, model.RarityOneDiamond, model.RarityTwoStar}, Number: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := encodeFilters(tt.in)
			require.NoError(t, err)
			assert.Len(t, fields, 2)

			got, problems := decodeFilters(fields)
			assert.Empty(t, problems)
			assert.Equal(t, tt.want, got)
		})
	}
}
