package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct{}

func (fakeBackend) Add(a, b *Raw) *Raw                       { return a }
func (fakeBackend) Sub(a, b *Raw) *Raw                       { return a }
func (fakeBackend) Mul(a, b *Raw) *Raw                       { return a }
func (fakeBackend) Div(a, b *Raw) *Raw                       { return a }
func (fakeBackend) MatMul(a, b *Raw) *Raw                    { return a }
func (fakeBackend) BatchMatMul(a, b *Raw) *Raw               { return a }
func (fakeBackend) Conv2D(i, k *Raw, s, p int) *Raw          { return i }
func (fakeBackend) MaxPool2D(i *Raw, k, s int) *Raw          { return i }
func (fakeBackend) Reshape(t *Raw, newShape Shape) *Raw      { return t }
func (fakeBackend) Transpose(t *Raw, axes ...int) *Raw       { return t }
func (fakeBackend) Unsqueeze(x *Raw, dim int) *Raw           { return x }
func (fakeBackend) MulScalar(x *Raw, s float32) *Raw         { return x }
func (fakeBackend) Rsqrt(x *Raw) *Raw                        { return x }
func (fakeBackend) ReLU(x *Raw) *Raw                         { return x }
func (fakeBackend) Softmax(x *Raw, dim int) *Raw             { return x }
func (fakeBackend) SumDim(x *Raw, dim int, kd bool) *Raw     { return x }
func (fakeBackend) MeanDim(x *Raw, dim int, kd bool) *Raw    { return x }
func (fakeBackend) Name() string                             { return "fake" }

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 0, Shape{2, 0, 4}.NumElements())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"same shape", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"scalar-like", Shape{2, 3}, Shape{1, 1}, Shape{2, 3}, true, false},
		{"trailing dim", Shape{4, 1}, Shape{4, 5}, Shape{4, 5}, true, false},
		{"rank mismatch", Shape{2, 3, 4}, Shape{3, 4}, Shape{2, 3, 4}, true, false},
		{"row vector", Shape{1, 8}, Shape{3, 8}, Shape{3, 8}, true, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestFromSlice(t *testing.T) {
	b := fakeBackend{}

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, b)
	require.NoError(t, err)
	assert.True(t, x.Shape().Equal(Shape{2, 3}))
	assert.Equal(t, 6, x.NumElements())

	_, err = FromSlice([]float32{1, 2, 3}, Shape{2, 3}, b)
	require.Error(t, err)
}

func TestTensor_AtSet(t *testing.T) {
	b := fakeBackend{}

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, b)
	require.NoError(t, err)

	assert.Equal(t, float32(1), x.At(0, 0))
	assert.Equal(t, float32(6), x.At(1, 2))

	x.Set(42, 1, 1)
	assert.Equal(t, float32(42), x.At(1, 1))
}

func TestTensor_AtPanicsOutOfBounds(t *testing.T) {
	b := fakeBackend{}
	x, err := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, b)
	require.NoError(t, err)

	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })
}

func TestTensor_Clone(t *testing.T) {
	b := fakeBackend{}
	x, err := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, b)
	require.NoError(t, err)

	y := x.Clone()
	y.Set(99, 0, 0)

	assert.Equal(t, float32(1), x.At(0, 0), "clone must not share storage")
	assert.Equal(t, float32(99), y.At(0, 0))
}

func TestCreation(t *testing.T) {
	b := fakeBackend{}

	z := Zeros(Shape{2, 2}, b)
	for _, v := range z.Data() {
		assert.Equal(t, float32(0), v)
	}

	o := Ones(Shape{2, 2}, b)
	for _, v := range o.Data() {
		assert.Equal(t, float32(1), v)
	}

	f := Full(Shape{3}, 2.5, b)
	for _, v := range f.Data() {
		assert.Equal(t, float32(2.5), v)
	}

	r := Randn(Shape{100}, b)
	assert.Equal(t, 100, r.NumElements())

	u := Rand(Shape{100}, b)
	for _, v := range u.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
}
