package learn

import (
	. "spf/alg/featurevector"
)

// UpdateStrategy post-processes the parameters seen after every item
type UpdateStrategy interface {
	Init(theta Sparse, iterations int)
	Update(theta Sparse)
	Finalize(theta Sparse) Sparse
}

type TrivialStrategy struct{}

func (u *TrivialStrategy) Init(theta Sparse, iterations int) {

}

func (u *TrivialStrategy) Update(theta Sparse) {

}

func (u *TrivialStrategy) Finalize(theta Sparse) Sparse {
	return theta
}

// AveragedStrategy returns the mean of the parameters over all generations
type AveragedStrategy struct {
	P, N  int64
	accum Sparse
}

func (u *AveragedStrategy) Init(theta Sparse, iterations int) {
	// reset in case of reuse
	u.N = 0
	u.P = int64(iterations)
	u.accum = NewSparse()
}

func (u *AveragedStrategy) Update(theta Sparse) {
	u.accum.UpdateAdd(theta)
	u.N += 1
}

func (u *AveragedStrategy) Finalize(theta Sparse) Sparse {
	if u.N == 0 {
		return theta
	}
	// N already counts iterations*instances
	return u.accum.Copy().UpdateScalarDivide(float64(u.N))
}
