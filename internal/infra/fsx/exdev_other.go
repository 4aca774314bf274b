//go:build !unix

package fsx

// 非 unix 平台（原工具主要跑在 Windows）没有稳定的 EXDEV errno 约定；
// rename 失败时按普通错误处理即可。
func isEXDEV(err error) bool { return false }
