package api

type Entry struct {
	Key                   string  `json:"key"`
	Weight                int64   `json:"weight"`
	Probability           float64 `json:"probability"`
	CumulativeWeight      int64   `json:"cumulative_weight"`
	CumulativeProbability float64 `json:"cumulative_probability"`
	Sampled               int64   `json:"sampled"`
}

type Distribution struct {
	Name        string  `json:"name"`
	TotalWeight int64   `json:"total_weight"`
	Entries     []Entry `json:"entries"`
}

type WeightUpdate struct {
	Key    string `json:"key"`
	Weight int64  `json:"weight"`
}

type AddWeights struct {
	Entries []WeightUpdate `json:"entries"`
}

type SampleRequest struct {
	Count int `json:"count"`
}

type SampleResponse struct {
	Keys []string `json:"keys"`
}

type ListDistributionsResponse struct {
	Names   []string `json:"names"`
	Tallied []string `json:"tallied"`
}
