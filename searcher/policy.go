package searcher

import "math"

// uct scores the children of one node: q/n + sqrt(c^2*ln(N)/n), where N is
// the visit count of the node and q, n are the rewards and visits of the
// child.
type uct struct {
	exploration float64 // c^2*ln(N)
}

func newUCT(cSquared float64, parentVisits int) uct {
	if parentVisits <= 0 {
		panic("parent has no visits")
	}
	return uct{exploration: cSquared * math.Log(float64(parentVisits))}
}

func (u uct) evaluate(rewards float64, visits int) float64 {
	if visits <= 0 {
		panic("child has no visits")
	}
	n := float64(visits)
	return rewards/n + math.Sqrt(u.exploration/n)
}
