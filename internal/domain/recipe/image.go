package recipe

import (
	"fmt"
	"hash/fnv"
	"net/url"
)

const (
	imageEndpoint    = "https://image.pollinations.ai/prompt/"
	imageStyleSuffix = ", professional food photography, 4k, high detail, appetizing, soft lighting"
	imageSeedSpace   = 10000
)

// ImageURL derives the rendering URL for a generation. The transform is a
// pure function of the prompt: the seed is hashed from the prompt rather than
// randomized, so the same recipe always maps to the same image and a history
// reload reproduces the URL stored at generation time.
func ImageURL(imagePrompt, title string) string {
	prompt := imagePrompt
	if prompt == "" {
		prompt = "delicious food photography of " + title
	}

	h := fnv.New32a()
	h.Write([]byte(prompt))
	seed := h.Sum32() % imageSeedSpace

	return fmt.Sprintf("%s%s?width=800&height=600&nologo=true&seed=%d",
		imageEndpoint,
		url.PathEscape(prompt+imageStyleSuffix),
		seed,
	)
}
