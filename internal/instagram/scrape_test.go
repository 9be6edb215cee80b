package instagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"1,234", 1234, true},
		{"1 234", 1234, true},
		{"1 234", 1234, true},
		{"987", 987, true},
		{"12.5K", 12500, true},
		{"12,5k", 12500, true},
		{"1.2M", 1200000, true},
		{"3m", 3000000, true},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseCount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageMeta_French(t *testing.T) {
	page := `<html><head>
<meta name="description" content="48 k abonnés, 512 abonnements, 1 024 publications - Voir les photos et vidéos Instagram de Julie (@julie.bio)">
<meta property="og:title" content="Julie (@julie.bio) • Photos et vidéos Instagram">
</head></html>`

	meta, err := parsePageMeta(strings.NewReader(page))
	require.NoError(t, err)

	p, err := meta.toRawProfile("julie.bio")
	require.NoError(t, err)
	assert.Equal(t, "Julie", p.FullName)
	assert.Equal(t, 48000, p.FollowerCount)
	assert.Equal(t, 512, p.FollowingCount)
	assert.Equal(t, 1024, p.PostCount)
}

func TestParsePageMeta_NoCounts(t *testing.T) {
	meta, err := parsePageMeta(strings.NewReader(`<html><head><title>Login • Instagram</title></head></html>`))
	require.NoError(t, err)

	_, err = meta.toRawProfile("x")
	assert.ErrorIs(t, err, ErrNoMetadata)
}
