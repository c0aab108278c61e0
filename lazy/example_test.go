package lazy_test

import (
	"fmt"

	"github.com/katalvlaran/lazygp/lazy"
)

// ExampleToeplitz_Slice evaluates a slice of a Toeplitz matrix with an added
// diagonal; only the requested block is formed.
func ExampleToeplitz_Slice() {
	tv, _ := lazy.NewToeplitz([]float64{1, 2, 3, 4}, lazy.WithAddedDiag([]float64{3, 3, 3, 3}))
	block, _ := tv.Slice(1, 3, 1, 3)
	m, _ := block.Evaluate()
	fmt.Print(m)
	d, _ := tv.Diag()
	fmt.Println(d)
	// Output:
	// [4, 2]
	// [2, 4]
	// [4 4 4 4]
}
