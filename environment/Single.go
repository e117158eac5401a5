package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Single describes an environment running a single task. The task index
// is exposed to the agent as a one-hot vector of length OneHotLen with a
// one at OneHotIdx, so that multi-head and task-conditioned networks can
// tell tasks apart.
type Single struct {
	Task      string `json:"task"`
	OneHotIdx int    `json:"one_hot_idx"`
	OneHotLen int    `json:"one_hot_len"`
}

// NewSingle returns a new Single environment running task, tagged with
// index idx of n tasks
func NewSingle(task string, idx, n int) (Single, error) {
	if task == "" {
		return Single{}, fmt.Errorf("newSingle: %w", ErrNoTasks)
	}
	if n <= 0 || idx < 0 || idx >= n {
		return Single{}, fmt.Errorf("newSingle: one-hot index out of "+
			"range \n\twant([0, %v)) \n\thave(%v)", n, idx)
	}

	return Single{Task: task, OneHotIdx: idx, OneHotLen: n}, nil
}

// OneHot returns the one-hot encoding of the task index
func (s Single) OneHot() *mat.VecDense {
	v := mat.NewVecDense(s.OneHotLen, nil)
	v.SetVec(s.OneHotIdx, 1.0)
	return v
}
