//go:build unix

package fsx

import (
	"errors"
	"syscall"
)

// isEXDEV 判断 rename 失败是否源于跨设备移动。
// os.Rename 返回的 *os.LinkError 实现了 Unwrap，errors.Is 可穿透到 errno。
func isEXDEV(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
