package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/osintsev/tweetgen/internal/apperrors"
)

// MaxTweetLen is the hard per-tweet character limit. Counted in runes,
// same as the generator model counts them.
const MaxTweetLen = 280

// ValidTweetLength reports whether tweet fits the character limit
func ValidTweetLength(tweet string) bool {
	return utf8.RuneCountInString(tweet) <= MaxTweetLen
}

// TrimToLimit cuts tweet down to the character limit.
// Overlong text loses its tail and gets an ellipsis instead.
func TrimToLimit(tweet string) string {
	if ValidTweetLength(tweet) {
		return tweet
	}

	runes := []rune(tweet)
	return string(runes[:MaxTweetLen-3]) + "..."
}

// NumberThread prefixes every tweet with its position as "[i/n] ".
// The prefix is never dropped: when the prefixed tweet would not fit
// the limit, the body is trimmed to make room.
func NumberThread(tweets []string) []string {
	total := len(tweets)
	numbered := make([]string, 0, total)

	for i, tweet := range tweets {
		prefix := fmt.Sprintf("[%d/%d] ", i+1, total)

		if utf8.RuneCountInString(prefix+tweet) <= MaxTweetLen {
			numbered = append(numbered, prefix+tweet)
			continue
		}

		room := MaxTweetLen - utf8.RuneCountInString(prefix)
		body := []rune(tweet)
		numbered = append(numbered, prefix+string(body[:room-3])+"...")
	}

	return numbered
}

// ParseFragments extracts a list of tweets from raw model output.
// Models are told to return a bare JSON array but tend to wrap it in
// prose, so after a direct parse fails the outermost bracket pair is
// tried as well. Returns apperrors.ErrThreadNotParsable when no
// well-formed array is found.
func ParseFragments(raw string) ([]string, error) {
	var tweets []string

	// JSON "null" unmarshals into a nil slice without an error and is
	// not an array of tweets
	if err := json.Unmarshal([]byte(raw), &tweets); err == nil && tweets != nil {
		return tweets, nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, apperrors.ErrThreadNotParsable
	}

	tweets = nil
	if err := json.Unmarshal([]byte(raw[start:end+1]), &tweets); err != nil || tweets == nil {
		return nil, apperrors.ErrThreadNotParsable
	}

	return tweets, nil
}
