// Package metrics implements the lexical measurement engine: comment and
// string stripping, function location, complexity scoring, call extraction,
// and the per-file and aggregate metric records they produce.
package metrics

// Record holds the measured metrics for a single source file. Field order
// matches the serialized key order.
type Record struct {
	// PhysicalLOC is [total, blank, comment] line counts.
	PhysicalLOC [3]int `json:"physical_loc"`
	// LogicalLOC is the heuristic statement-count estimate.
	LogicalLOC int `json:"logical_loc"`
	// NumFunctions counts definition headers, located body or not.
	NumFunctions int `json:"num_functions"`
	// Complexity holds one score per function with a locatable body, in
	// source order. May be shorter than NumFunctions.
	Complexity []int `json:"cyclomatic_complexity"`
	// FanOut counts call-like tokens in the file.
	FanOut int `json:"fan_out"`
	// FanIn is defined as the file's own function count. It is a same-file
	// proxy, not an incoming-call count.
	FanIn int `json:"fan_in"`
}

// Totals is the aggregate shape shared by module summaries and repo totals:
// the Record shape with the complexity list collapsed to its sum. fan_in
// precedes fan_out here, unlike Record.
type Totals struct {
	PhysicalLOC  [3]int `json:"physical_loc"`
	LogicalLOC   int    `json:"logical_loc"`
	NumFunctions int    `json:"num_functions"`
	Complexity   int    `json:"cyclomatic_complexity"`
	FanIn        int    `json:"fan_in"`
	FanOut       int    `json:"fan_out"`
}

// Add folds one file record into the totals. The fold is associative and
// commutative, so records may be added in any order or grouping.
func (t *Totals) Add(r Record) {
	for i := range t.PhysicalLOC {
		t.PhysicalLOC[i] += r.PhysicalLOC[i]
	}
	t.LogicalLOC += r.LogicalLOC
	t.NumFunctions += r.NumFunctions
	for _, score := range r.Complexity {
		t.Complexity += score
	}
	t.FanIn += r.FanIn
	t.FanOut += r.FanOut
}

// Merge folds another aggregate into the totals.
func (t *Totals) Merge(o Totals) {
	for i := range t.PhysicalLOC {
		t.PhysicalLOC[i] += o.PhysicalLOC[i]
	}
	t.LogicalLOC += o.LogicalLOC
	t.NumFunctions += o.NumFunctions
	t.Complexity += o.Complexity
	t.FanIn += o.FanIn
	t.FanOut += o.FanOut
}
