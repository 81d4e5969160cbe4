package storage

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	base, err := url.Parse("https://cdn.example.com/assets/")
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "plain key", key: "teams/1/logo/a.png", want: "https://cdn.example.com/assets/teams/1/logo/a.png"},
		{name: "leading slash", key: "/teams/1/logo/a.png", want: "https://cdn.example.com/assets/teams/1/logo/a.png"},
		{name: "empty key", key: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(base, tt.key))
		})
	}

	assert.Empty(t, PublicURL(nil, "x"))
}

func TestObjectKeys(t *testing.T) {
	logo := TeamLogoKey(7, "PNG")
	assert.True(t, strings.HasPrefix(logo, "teams/7/logo/"))
	assert.True(t, strings.HasSuffix(logo, ".png"))
	assert.NotEqual(t, logo, TeamLogoKey(7, "PNG"))

	export := StandingsExportKey(3)
	assert.True(t, strings.HasPrefix(export, "tournaments/3/standings/"))
	assert.True(t, strings.HasSuffix(export, ".json"))
}

func TestExtensionFromContentType(t *testing.T) {
	ext, err := ExtensionFromContentType("image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = ExtensionFromContentType("application/pdf")
	assert.Error(t, err)
}
