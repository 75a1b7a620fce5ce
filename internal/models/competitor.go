package models

// CompetitorContent is the parsed snapshot of one scraped competitor page.
// Ephemeral: produced by the scrape step, consumed once by the aggregator.
type CompetitorContent struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	WordCount     int      `json:"word_count"`
	Headings      []string `json:"headings"`
	Paragraphs    []string `json:"paragraphs"`
	Topics        []string `json:"topics"`
	Entities      []Entity `json:"entities"`
	HasVideo      bool     `json:"has_video"`
	HasFAQ        bool     `json:"has_faq"`
	HasTable      bool     `json:"has_table"`
	InternalLinks int      `json:"internal_links"`
	ExternalLinks int      `json:"external_links"`
	Images        int      `json:"images"`
	LastModified  string   `json:"last_modified,omitempty"`
}

// SERPArticle is the snippet-level metadata supplied for a ranking result.
// It backs the fallback record when scraping a competitor URL fails.
type SERPArticle struct {
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Snippet   string   `json:"snippet"`
	WordCount int      `json:"word_count"`
	Headings  []string `json:"headings"`
	Topics    []string `json:"topics"`
	Entities  []string `json:"entities"`
	HasVideo  bool     `json:"has_video"`
	HasFAQ    bool     `json:"has_faq"`
	HasTable  bool     `json:"has_table"`
}

// FrequencyEntry counts how many documents contain a heading or topic.
type FrequencyEntry struct {
	Value     string `json:"value"`
	Frequency int    `json:"frequency"`
}

// StructurePatterns aggregates structural averages across a corpus.
type StructurePatterns struct {
	AvgHeadings      int     `json:"avg_headings"`
	AvgParagraphs    int     `json:"avg_paragraphs"`
	AvgInternalLinks int     `json:"avg_internal_links"`
	AvgExternalLinks int     `json:"avg_external_links"`
	AvgImages        int     `json:"avg_images"`
	VideoPercentage  float64 `json:"video_percentage"`
	FAQPercentage    float64 `json:"faq_percentage"`
	TablePercentage  float64 `json:"table_percentage"`
}

// CorpusStats is the aggregate view over N competitor documents.
type CorpusStats struct {
	AverageWordCount int               `json:"average_word_count"`
	MedianWordCount  int               `json:"median_word_count"`
	WordCountMin     int               `json:"word_count_min"`
	WordCountMax     int               `json:"word_count_max"`
	CommonHeadings   []FrequencyEntry  `json:"common_headings"`
	CommonTopics     []FrequencyEntry  `json:"common_topics"`
	CommonEntities   []Entity          `json:"common_entities"`
	ContentGaps      []string          `json:"content_gaps"`
	Structure        StructurePatterns `json:"structure"`
	Documents        int               `json:"documents"`
}
