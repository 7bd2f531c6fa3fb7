package cleaner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImages(t *testing.T) {
	html := `<div>
		<img src="https://a.test/1.png" alt="one" title="First">
		<img data-src="https://a.test/lazy.png">
		<img src="data:image/png;base64,AAAA" alt="inline">
		<img src="">
		<img src="/relative.jpg" alt="  ">
	</div>`

	images := ExtractImages(html, "")
	require.Len(t, images, 3)

	assert.Equal(t, "https://a.test/1.png", images[0].Src)
	assert.Equal(t, "one", images[0].Alt)
	assert.Equal(t, "First", images[0].Title)

	assert.Equal(t, "https://a.test/lazy.png", images[1].Src)
	assert.Equal(t, "Image", images[1].Alt)

	assert.Equal(t, "/relative.jpg", images[2].Src)
	assert.Equal(t, "Image", images[2].Alt)
}

func TestExtractImages_Limit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < MaxImages+5; i++ {
		fmt.Fprintf(&b, `<img src="https://a.test/%d.png">`, i)
	}

	images := ExtractImages(b.String(), "https://a.test/")
	require.Len(t, images, MaxImages)
	assert.Equal(t, "https://a.test/0.png", images[0].Src)
	assert.Equal(t, fmt.Sprintf("https://a.test/%d.png", MaxImages-1), images[MaxImages-1].Src)
}

func TestExtractImages_Empty(t *testing.T) {
	assert.Nil(t, ExtractImages("", "https://a.test/"))
	assert.Nil(t, ExtractImages("<p>no images</p>", "https://a.test/"))
}

func TestExtractImages_ResolvesRelativeSources(t *testing.T) {
	html := `<img src="/logo.png" alt="logo">
		<img data-src="img/a.jpg">
		<img src="//cdn.test/b.png">
		<img src="https://other.test/c.png">
		<img src="https://shop.test/logo.png" alt="again">`

	images := ExtractImages(html, "https://shop.test/products/item")
	require.Len(t, images, 4)
	assert.Equal(t, "https://shop.test/logo.png", images[0].Src)
	assert.Equal(t, "logo", images[0].Alt)
	assert.Equal(t, "https://shop.test/products/img/a.jpg", images[1].Src)
	assert.Equal(t, "https://cdn.test/b.png", images[2].Src)
	assert.Equal(t, "https://other.test/c.png", images[3].Src)
}

func TestExtractImages_NoBaseKeepsSources(t *testing.T) {
	images := ExtractImages(`<img src="/logo.png"><img src="/logo.png">`, "not a url")
	require.Len(t, images, 1)
	assert.Equal(t, "/logo.png", images[0].Src)
}
