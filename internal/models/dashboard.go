package models

// DashboardResponse is the unified dashboard payload. ChartAggregates is
// present only on the first page of a filter set.
type DashboardResponse struct {
	ChartAggregates  *AggregateResult `json:"chartAggregates,omitempty"`
	Trips            []Trip           `json:"trips"`
	LastEvaluatedKey string           `json:"lastEvaluatedKey,omitempty"`
}

// ResolveRequest maps entity kinds to the ids the client needs names for.
type ResolveRequest map[EntityKind][]string

// ResolveResponse maps entity kinds to id→display-name. Ids with no backing
// record are simply absent.
type ResolveResponse map[EntityKind]map[string]string
