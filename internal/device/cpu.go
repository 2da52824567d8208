package device

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Threads is the thread count for general-purpose inference: physical cores
// when cpuid can tell, logical CPUs otherwise.
func Threads() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func DescribeCPU() string {
	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = runtime.GOARCH
	}
	return fmt.Sprintf("%s, %d threads, avx2=%t", brand, Threads(), cpuid.CPU.Supports(cpuid.AVX2))
}
