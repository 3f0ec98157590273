package service

import (
	"fmt"
	"strings"

	"github.com/draftwell/draftwell/internal/domain"
)

// Fallback content is deterministic given the topic so callers always receive
// a non-empty result when the generation provider fails or returns an
// unusable shape.

func topicHashtag(topic string) string {
	return strings.ReplaceAll(topic, " ", "")
}

func fallbackTweets(topic string, n int) []string {
	tweets := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		tweets = append(tweets, fmt.Sprintf(
			"🚀 %d/ %s insights:\n\n✨ Innovation at its finest\n📈 Rapid adoption\n🌟 Big potential ahead\n\nYour take on %s? #Innovation #%s #TechTrends",
			i, topic, topic, topicHashtag(topic)))
	}
	return tweets
}

func fallbackLinkedInPosts(topic string, n int) []string {
	posts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, fmt.Sprintf(
			"🌟 (%d/%d) The Future of %s\n\n🔍 Key Observations:\n• Rapid innovation\n• Meaningful investments\n• Early wins emerging\n• Cross-sector potential\n\n💡 Why it matters:\n%s is reshaping efficiency and decision-making. Early adopters build durable advantages.\n\n📈 Looking ahead:\nExpect %s to become core to strategy and operations. How are you approaching it?\n\n#%s #Innovation #FutureOfWork #Technology",
			i, n, topic, topic, topic, topicHashtag(topic)))
	}
	return posts
}

// fallbackSearchResults are the context snippets used when no search API is
// configured.
func fallbackSearchResults(topic string) []string {
	return []string{
		fmt.Sprintf("%s is gaining significant attention in recent industry reports and discussions.", topic),
		fmt.Sprintf("Latest trends and developments in %s show promising growth and innovation.", topic),
		fmt.Sprintf("Experts predict that %s will continue to evolve and impact various sectors.", topic),
		fmt.Sprintf("Recent studies highlight the importance and benefits of %s in modern applications.", topic),
		fmt.Sprintf("Industry leaders are increasingly investing in %s related technologies and solutions.", topic),
	}
}

func fallbackTopic(category string, i int) domain.TrendingTopic {
	lower := strings.ToLower(category)
	return domain.TrendingTopic{
		Title: fmt.Sprintf("%s trending topic %d", category, i),
		Summary: fmt.Sprintf("This %s topic is currently trending and generating significant interest among users and media outlets. It represents current market trends and discussions in the %s space.",
			lower, lower),
	}
}
