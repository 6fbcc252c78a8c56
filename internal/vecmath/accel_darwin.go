//go:build darwin

package vecmath

import (
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// vDSP_dotpr is Accelerate.framework's vectorized single-precision dot
// product: void vDSP_dotpr(const float *A, vDSP_Stride IA, const float *B,
// vDSP_Stride IB, float *C, vDSP_Length N). purego can bind it directly
// since all arguments are pointer- or integer-sized, matching the
// Dlopen/RegisterLibFunc idiom the rest of this module's pack uses for
// calling into system libraries without cgo.
var vDSPDotProduct func(a uintptr, strideA int64, b uintptr, strideB int64, out uintptr, n uint64)

func init() {
	lib, err := purego.Dlopen(
		"/System/Library/Frameworks/Accelerate.framework/Accelerate",
		purego.RTLD_NOW|purego.RTLD_GLOBAL,
	)
	if err != nil {
		// No Accelerate framework reachable (unusual, but not fatal): stay
		// on the scalar path.
		slog.Debug("vecmath: accelerate framework unavailable, using scalar path", "error", err)
		return
	}

	purego.RegisterLibFunc(&vDSPDotProduct, lib, "vDSP_dotpr")
	accelDot = acceleratedDot
}

func acceleratedDot(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return dotScalar(a, b)
	}

	var out float32
	vDSPDotProduct(
		uintptr(unsafe.Pointer(&a[0])), 1,
		uintptr(unsafe.Pointer(&b[0])), 1,
		uintptr(unsafe.Pointer(&out)), uint64(len(a)),
	)
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
	return out
}
