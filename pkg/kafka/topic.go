package kafka

// TopicPrefix namespaces every topic on the shared cluster.
const TopicPrefix = "ecommerce"

// Topic returns the topic name for an aggregate and action, for example
// Topic("wishlist", "shared") is "ecommerce.wishlist.shared".
func Topic(aggregate, action string) string {
	return TopicPrefix + "." + aggregate + "." + action
}
