package nn

import (
	"fmt"
	"math"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// ScaledDotProductAttention computes attention using the scaled
// dot-product mechanism:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(d_k)) * V
//
// The softmax runs over the key axis independently per batch, per head,
// per query position. The function is stateless and purely functional:
// fixed inputs always produce the same output.
//
// Parameters:
//   - query: [batch, heads, seq_q, d_k]
//   - key:   [batch, heads, seq_k, d_k]
//   - value: [batch, heads, seq_k, d_v]
//   - dK: per-head key width used for the 1/sqrt(d_k) scale
//
// Returns:
//   - output: attended values [batch, heads, seq_q, d_v]
//   - weights: attention weights [batch, heads, seq_q, seq_k]
//
// Example:
//
//	q := tensor.Randn(tensor.Shape{2, 8, 49, 64}, backend)
//	k := tensor.Randn(tensor.Shape{2, 8, 49, 64}, backend)
//	v := tensor.Randn(tensor.Shape{2, 8, 49, 64}, backend)
//	output, weights := nn.ScaledDotProductAttention(q, k, v, 64)
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[B],
	dK int,
) (*tensor.Tensor[B], *tensor.Tensor[B]) {
	validateAttentionInputs(query, key, value, dK)

	scale := float32(1.0 / math.Sqrt(float64(dK)))

	// Attention scores: Q @ K^T, with K's last two dims swapped.
	kT := key.Transpose(0, 1, 3, 2)
	scores := query.BatchMatMul(kT).MulScalar(scale)

	// Softmax over the key axis.
	weights := scores.Softmax(-1)

	// Context: weights @ V.
	output := weights.BatchMatMul(value)

	return output, weights
}

// validateAttentionInputs checks the head-split shapes of Q, K, V.
func validateAttentionInputs[B tensor.Backend](query, key, value *tensor.Tensor[B], dK int) {
	if len(query.Shape()) != 4 {
		panic(fmt.Sprintf("scaled dot-product attention: query must be 4D [batch, heads, seq_q, d_k], got %v", query.Shape()))
	}
	if len(key.Shape()) != 4 {
		panic(fmt.Sprintf("scaled dot-product attention: key must be 4D [batch, heads, seq_k, d_k], got %v", key.Shape()))
	}
	if len(value.Shape()) != 4 {
		panic(fmt.Sprintf("scaled dot-product attention: value must be 4D [batch, heads, seq_k, d_v], got %v", value.Shape()))
	}

	// Q and K must share the key width the scale is computed from.
	if query.Shape()[3] != dK || key.Shape()[3] != dK {
		panic(fmt.Sprintf("scaled dot-product attention: query/key width mismatch: %d vs %d (d_k=%d)",
			query.Shape()[3], key.Shape()[3], dK))
	}

	// K and V must share the token count.
	if key.Shape()[2] != value.Shape()[2] {
		panic(fmt.Sprintf("scaled dot-product attention: key and value must have same seq length: %d vs %d",
			key.Shape()[2], value.Shape()[2]))
	}
}
