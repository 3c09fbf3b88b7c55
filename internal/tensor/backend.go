package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations; the
// Tensor type is a thin type-safe wrapper that delegates to one.
//
// The shipped implementation is internal/backend/cpu. Every operation
// is a single blocking call that returns a fully computed result.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *Raw) *Raw
	Sub(a, b *Raw) *Raw
	Mul(a, b *Raw) *Raw
	Div(a, b *Raw) *Raw

	// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *Raw) *Raw

	// BatchMatMul performs batched matrix multiplication for 3D/4D tensors.
	// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
	// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
	BatchMatMul(a, b *Raw) *Raw

	// Convolutional operations.
	Conv2D(input, kernel *Raw, stride, padding int) *Raw
	MaxPool2D(input *Raw, kernelSize, stride int) *Raw

	// Shape operations.
	Reshape(t *Raw, newShape Shape) *Raw
	Transpose(t *Raw, axes ...int) *Raw
	Unsqueeze(x *Raw, dim int) *Raw

	// Scalar and element-wise math operations.
	MulScalar(x *Raw, scalar float32) *Raw
	Rsqrt(x *Raw) *Raw
	ReLU(x *Raw) *Raw

	// Softmax along a dimension (supports negative indexing).
	Softmax(x *Raw, dim int) *Raw

	// Reduction operations (supports negative dim indexing).
	SumDim(x *Raw, dim int, keepDim bool) *Raw
	MeanDim(x *Raw, dim int, keepDim bool) *Raw

	// Metadata.
	Name() string
}
