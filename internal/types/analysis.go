package types

// SiteMeta is the hub's summary of an analyzed target site.
type SiteMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
}

// GeneratedCluster is one keyword cluster of a generated topic.
type GeneratedCluster struct {
	Keywords    []string `json:"keywords"`
	PromptTexts []string `json:"prompt_texts"`
}

type GeneratedTopic struct {
	Topic    string             `json:"topic"`
	Clusters []GeneratedCluster `json:"clusters"`
}

// PromptTexts flattens the topic's clusters in cluster order.
func (t GeneratedTopic) PromptTexts() []string {
	var out []string
	for _, cluster := range t.Clusters {
		out = append(out, cluster.PromptTexts...)
	}
	return out
}

type Balance struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type GenerationPrice struct {
	PerTopic float64 `json:"per_topic"`
	Currency string  `json:"currency"`
}

// Affordable reports whether the balance covers generating the given number
// of topics at the quoted price.
func (b Balance) Affordable(price GenerationPrice, topics int) bool {
	if topics <= 0 {
		return true
	}
	return b.Amount >= price.PerTopic*float64(topics)
}
