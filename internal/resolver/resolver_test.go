package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetReference(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		path  string
		want  string
	}{
		{
			name:  "canonical path",
			theme: "mytheme",
			path:  "/images/logo.png",
			want:  "{{get_asset_url('/mytheme/images/logo.png')}}",
		},
		{
			name:  "theme slashes trimmed",
			theme: "/mytheme/",
			path:  "/css/site.css",
			want:  "{{get_asset_url('/mytheme/css/site.css')}}",
		},
		{
			name:  "missing leading slash",
			theme: "t",
			path:  "a.png",
			want:  "{{get_asset_url('/t/a.png')}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.theme).AssetReference(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssetReferenceWithoutTheme(t *testing.T) {
	_, err := New("").AssetReference("/a.png")
	assert.ErrorIs(t, err, ErrThemeRequired)

	_, err = New("  /  ").AssetReference("/a.png")
	assert.ErrorIs(t, err, ErrThemeRequired)

	var r *Resolver
	_, err = r.AssetReference("/a.png")
	assert.ErrorIs(t, err, ErrThemeRequired)
}

func TestIsAssetReference(t *testing.T) {
	assert.True(t, IsAssetReference("{{get_asset_url('/t/a.png')}}"))
	assert.True(t, IsAssetReference("{{ get_asset_url('/t/a.png') }}"))
	assert.True(t, IsAssetReference("{% module_asset_url 'x' %}"))
	assert.False(t, IsAssetReference("/images/a.png"))
	assert.False(t, IsAssetReference("/a{b}.png"))
}
