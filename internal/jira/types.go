// internal/jira/types.go
package jira

// SearchJQLReq is the request payload for the /rest/api/3/search/jql
// endpoint.  The JQL string specifies the search query, and optional
// parameters control paging and the fields returned.
type SearchJQLReq struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults,omitempty"`
	Fields     []string `json:"fields,omitempty"`
}

// SearchResult models the response from the /rest/api/3/search/jql
// endpoint.  Issues are kept as raw documents so they go through the same
// extraction path as single-issue lookups.
type SearchResult struct {
	Issues        []map[string]any `json:"issues"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
	IsLast        bool             `json:"isLast,omitempty"`
}

// IssueSummary is the flattened view of a search hit used by list replies.
type IssueSummary struct {
	Key     string
	Summary string
	Status  string
}

// Summaries converts the raw search hits into IssueSummary values,
// preserving Jira's order.
func (r SearchResult) Summaries() []IssueSummary {
	out := make([]IssueSummary, 0, len(r.Issues))
	for _, doc := range r.Issues {
		out = append(out, IssueSummary{
			Key:     String(doc, "key", NoKey),
			Summary: String(doc, "fields.summary", NoSummary),
			Status:  String(doc, "fields.status.name", NoStatus),
		})
	}
	return out
}
