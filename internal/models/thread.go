package models

import (
	"time"
)

// Thread is a stored tweet thread: the topic it was generated from and
// the final post-processed tweets in order
type Thread struct {
	ID         int64
	UserID     int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	Topic      string
	Tweets     []string
	TweetCount int
}
