package output

import "time"

// ConvertOutput is the JSON result of the convert command.
type ConvertOutput struct {
	Results   []ConvertResult `json:"results"`
	Converted int             `json:"converted"`
	Failed    int             `json:"failed"`
}

// ConvertResult describes one converted source.
type ConvertResult struct {
	Source     string `json:"source"`
	Output     string `json:"output,omitempty"`
	Context    string `json:"context,omitempty"`
	RunID      string `json:"run_id,omitempty"`
	Entities   int    `json:"entities"`
	Nodes      int    `json:"nodes"`
	Links      int    `json:"links"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// InspectOutput is the JSON result of the inspect command.
type InspectOutput struct {
	Source         string          `json:"source"`
	Context        string          `json:"context"`
	ProductVersion string          `json:"product_version"`
	ChangeTracking string          `json:"change_tracking"`
	AccessMode     string          `json:"access_mode"`
	Entities       []EntitySummary `json:"entities"`
	Nodes          int             `json:"nodes"`
	Links          int             `json:"links"`
}

// EntitySummary describes one entity type.
type EntitySummary struct {
	Name        string   `json:"name"`
	BaseClass   string   `json:"base_class,omitempty"`
	IsAbstract  bool     `json:"is_abstract"`
	Properties  int      `json:"properties"`
	Navigations int      `json:"navigations"`
	ForeignKeys int      `json:"foreign_keys"`
	PrimaryKey  []string `json:"primary_key"`
}

// DAGOutput is the JSON result of the dag command.
type DAGOutput struct {
	Levels         []DAGLevel `json:"levels"`
	TotalEntities  int        `json:"total_entities"`
	TotalRelations int        `json:"total_relations"`
	Roots          []string   `json:"roots"`
	Cycle          []string   `json:"cycle,omitempty"`
}

// DownstreamOutput is the JSON result of dag --entity.
type DownstreamOutput struct {
	Entity     string   `json:"entity"`
	Principals []string `json:"principals"`
	Downstream []string `json:"downstream"`
}

// DAGLevel groups entities whose principals are all in earlier levels.
type DAGLevel struct {
	Level    int       `json:"level"`
	Entities []DAGNode `json:"entities"`
}

// DAGNode is one entity in the dependency graph.
type DAGNode struct {
	Name            string   `json:"name"`
	Principals      []string `json:"principals"`
	Dependents      []string `json:"dependents"`
	SelfReferencing bool     `json:"self_referencing,omitempty"`
}

// HistoryOutput is the JSON result of the history command.
type HistoryOutput struct {
	Conversions []HistoryEntry `json:"conversions"`
}

// HistoryEntry is one recorded conversion.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Context    string    `json:"context"`
	Status     string    `json:"status"`
	Output     string    `json:"output,omitempty"`
	Entities   int       `json:"entities"`
	Nodes      int       `json:"nodes"`
	Links      int       `json:"links"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}
