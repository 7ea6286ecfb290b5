package kafka

import "fmt"

// TopicPrefix namespaces every topic this backend writes.
const TopicPrefix = "moviereviews"

// Topic builds "<prefix>.<domain>.<action>", e.g. moviereviews.review.created.
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
