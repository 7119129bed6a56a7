package storefront

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSelectIcon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "square thumbnail container",
			html: `<div class="thumb" width="64" height="64"><img src="//cdn/a.png"></div>`,
			want: "https://cdn/a.png",
		},
		{
			name: "non-square container falls back to file name",
			html: `<div class="thumb" style="width:300px;height:100px"><img src="/wide.png"></div><img src="/img/game_icon.png">`,
			want: "/img/game_icon.png",
		},
		{
			name: "banner and carousel images skipped",
			html: `<img src="/banner_icon.png"><div class="carousel"><img src="/slide_icon.png"></div><img src="/square_logo.jpg">`,
			want: "/square_logo.jpg",
		},
		{
			name: "query string ignored for file name",
			html: `<img src="/cover.jpg?type=icon">`,
			want: "",
		},
		{
			name: "nothing",
			html: `<p>text</p>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, selectIcon(mustDoc(t, tt.html)))
		})
	}
}

func TestParseTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Crossfire", parseTitle(mustDoc(t, `<meta property="og:title" content=" Crossfire | STOVE STORE ">`)))
	assert.Equal(t, "Game", parseTitle(mustDoc(t, `<title>Game | Something | Else</title>`)))
	assert.Empty(t, parseTitle(mustDoc(t, `<p>x</p>`)))
}

func TestGateProductID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "55", gateProductID("https://store.onstove.com/en/GAMES/55", ""))
	assert.Equal(t, "9", gateProductID("https://store.onstove.com/en/event", `<a href="/agree?productNo=9">`))
	assert.Empty(t, gateProductID("https://store.onstove.com/", "<p></p>"))
}
