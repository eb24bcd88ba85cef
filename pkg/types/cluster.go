package types

// ClusterResult is one k-means cluster over measurement values. Members are
// references into the dataset the clustering ran on; neither the cluster nor
// its consumers mutate them.
type ClusterResult struct {
	Center          float64
	AverageMovement float64
	MemberCount     int
	Members         []PriceMovement
	Variance        float64
	Range           ValueRange
}
