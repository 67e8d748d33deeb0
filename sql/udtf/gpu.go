package udtf

import "github.com/heavyql/qkernel/sql/errcode"

// DeviceBufferProvider is the external collaborator a GPU-mode UDTF
// wrapper allocates device buffers through; the real device
// allocator lives outside this module's scope.
type DeviceBufferProvider interface {
	AllocateDevice(args []Argument) []Argument
	CopyToDevice(args []Argument)
	CopyRowCountFromDevice() int64
}

// BuildGPUWrapper wraps a CPU Wrapper for GPU dispatch:
// a thin kernel that allocates device buffers, copies the bound arguments
// in, runs the user function's wrapper against the device-resident copies,
// and copies the row count back out.
func BuildGPUWrapper(provider DeviceBufferProvider, inner Wrapper) Wrapper {
	return func(mgr *Manager, args []Argument) (int64, errcode.Code) {
		deviceArgs := provider.AllocateDevice(args)
		provider.CopyToDevice(deviceArgs)
		_, code := inner(mgr, deviceArgs)
		if code != errcode.OK {
			return 0, code
		}
		return provider.CopyRowCountFromDevice(), errcode.OK
	}
}
