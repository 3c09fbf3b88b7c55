package cpu

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Naive O(n³) implementation; the attention workloads this serves are
// dominated by small per-head matrices.
func (cpu *CPUBackend) MatMul(a, b *tensor.Raw) *tensor.Raw {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n})
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	matmul(result.Data(), a.Data(), b.Data(), m, k, n)
	return result
}

// BatchMatMul performs batched matrix multiplication.
// Supports 3D and 4D tensors with batch dimensions:
//
//	3D: [B, M, K] @ [B, K, N] -> [B, M, N]
//	4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions; all leading
// dimensions must match.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.Raw) *tensor.Raw {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("batchmatmul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("batchmatmul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}

	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	m := aShape[ndim-2]
	k1 := aShape[ndim-1]
	k2 := bShape[ndim-2]
	n := bShape[ndim-1]

	if k1 != k2 {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k1, k2))
	}

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: failed to create result tensor: %v", err))
	}

	aData, bData, cData := a.Data(), b.Data(), result.Data()
	for batch := 0; batch < batchSize; batch++ {
		matmul(
			cData[batch*m*n:(batch+1)*m*n],
			aData[batch*m*k1:(batch+1)*m*k1],
			bData[batch*k1*n:(batch+1)*k1*n],
			m, k1, n,
		)
	}

	return result
}

// matmul computes C[i,j] = sum_k A[i,k] * B[k,j] over flat row-major slices.
func matmul(c, a, b []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := float32(0)
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			c[i*n+j] = sum
		}
	}
}
