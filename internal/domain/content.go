package domain

// Placeholder defaults for extracted fields. Downstream code relies on every
// field being non-empty, so the pipeline fills anything unresolved with these.
const (
	PlaceholderVideoTitle       = "Video Title"
	PlaceholderVideoDescription = "Video description not available"
	PlaceholderChannel          = "Channel"

	PlaceholderArticleTitle       = "Article"
	PlaceholderArticleDescription = "Article description not available"
	PlaceholderAuthor             = "Author"
)

// ExtractedContent is the best-effort metadata assembled for an external URL.
// Built per request; partial source results are merged, unresolved fields keep
// their placeholder defaults.
type ExtractedContent struct {
	Title           string
	Description     string
	ChannelOrAuthor string
	Transcript      string
}

// ContentMode selects which optional content variants are generated.
type ContentMode string

const (
	ModeDefault        ContentMode = "default"
	ModeTwitterThreads ContentMode = "twitter_threads"
	ModeInstagram      ContentMode = "instagram"
)

// ContentMood sets the tone the generated variants are written in.
type ContentMood string

const DefaultMood ContentMood = "professional"

// ContentMoods is the fixed set accepted by the generation endpoint.
var ContentMoods = []ContentMood{
	"professional", "casual", "funny", "insightful", "motivational",
	"controversial", "educational", "inspiring", "conversational",
	"authoritative",
}

// ValidMood reports whether mood is one of the supported tones.
func ValidMood(mood ContentMood) bool {
	for _, m := range ContentMoods {
		if m == mood {
			return true
		}
	}
	return false
}

// ContentSet is the generated output for a topic request. Ephemeral to the
// response, never persisted.
type ContentSet struct {
	Topic          string
	Tweets         []string
	LinkedInPosts  []string
	Threads        [][]string
	InstagramPosts []string
	SearchResults  []string
}

// Summary is the generated output for an article or video URL.
type Summary struct {
	Title         string
	Summary       string
	LinkedInPost  string
	TwitterThread []string
	OriginalURL   string
}

// TrendingTopic is one entry of a trending-topics response.
type TrendingTopic struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// TrendingCategories is the fixed set accepted by the trending endpoint.
var TrendingCategories = []string{
	"Business", "Tech", "Sports", "Entertainment", "Movies",
	"Politics", "Science", "Health", "Products",
}

// ValidCategory reports whether cat is one of the supported trending categories.
func ValidCategory(cat string) bool {
	for _, c := range TrendingCategories {
		if c == cat {
			return true
		}
	}
	return false
}
