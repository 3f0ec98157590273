package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftwell/draftwell/pkg/openai"
)

// visualTheme describes the look applied to a generated image.
type visualTheme struct {
	theme    string
	colors   string
	elements string
}

// themeRule maps content keywords to a visual theme. Rules are checked in
// order; the first keyword hit wins.
type themeRule struct {
	keywords []string
	theme    visualTheme
}

var themeRules = []themeRule{
	{
		keywords: []string{"ai", "artificial intelligence", "machine learning"},
		theme: visualTheme{
			theme:    "futuristic AI technology, neural networks, digital brain, circuit patterns",
			colors:   "blue, purple, and silver tones",
			elements: "holographic displays, data visualizations, tech interfaces",
		},
	},
	{
		keywords: []string{"business", "startup", "entrepreneur"},
		theme: visualTheme{
			theme:    "professional business environment, growth charts, handshakes, office settings",
			colors:   "professional blues, grays, and accent colors",
			elements: "charts, graphs, business icons, professional settings",
		},
	},
	{
		keywords: []string{"health", "medical", "healthcare"},
		theme: visualTheme{
			theme:    "medical technology, healthcare professionals, wellness symbols",
			colors:   "clean whites, medical blues, and health greens",
			elements: "medical equipment, health icons, professional healthcare settings",
		},
	},
	{
		keywords: []string{"tech", "software", "digital"},
		theme: visualTheme{
			theme:    "modern technology, digital interfaces, coding elements",
			colors:   "tech blues, digital greens, and modern grays",
			elements: "code snippets, digital interfaces, tech gadgets",
		},
	},
	{
		keywords: []string{"finance", "money", "investment"},
		theme: visualTheme{
			theme:    "financial charts, currency symbols, professional finance",
			colors:   "professional greens, golds, and business colors",
			elements: "charts, graphs, financial symbols, professional settings",
		},
	},
}

var genericTheme = visualTheme{
	theme:    "professional, modern, clean design",
	colors:   "professional and modern color palette",
	elements: "relevant icons and visual elements",
}

// classifyTheme picks the visual theme for a piece of content by keyword match.
func classifyTheme(content string) visualTheme {
	lower := strings.ToLower(content)
	for _, rule := range themeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.theme
			}
		}
	}
	return genericTheme
}

// GenerateImage classifies the prompt into a visual theme and asks the image
// provider for a matching social media visual.
func (s *ContentService) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	theme := classifyTheme(prompt)

	imagePrompt := fmt.Sprintf(`Create a professional social media post image for this content: %q.

Visual Requirements:
- Theme: %s
- Color Scheme: %s
- Key Elements: %s
- Style: Professional, modern, clean, social media optimized
- Composition: Balanced, visually appealing, supports the written content
- Quality: High-resolution, professional photography/illustration style

Make the image directly relevant to the specific topic and content mentioned. Avoid generic stock photos - create something that specifically represents the subject matter.`,
		prompt, theme.theme, theme.colors, theme.elements)

	return s.ai.GenerateImage(ctx, openai.ImageRequest{Prompt: imagePrompt, Size: size})
}
