// Package vcache 负责视频预览帧缓存的键格式与孤儿清理。
//
// 帧的生成/消费属于外部协作者（解码进程与交互层）；本包只保证两件事：
// - 键由源视频绝对路径确定性推导（同路径必同键）
// - 视频被移动/删除后，对应旧帧会被清掉，不在 !tempvideoscreen 里积灰
//
// 帧是可随时重建的派生缓存，清理走直接删除，不进回收区。
package vcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/soaresden/photoorganizer/internal/domain"
)

// Key 返回源视频路径的缓存键（xxhash 的 16 位十六进制）。
func Key(sourcePath string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(sourcePath))
}

// FrameName 返回某个抽帧百分比对应的缓存文件名，形如 "a1b2..._050.jpg"。
func FrameName(key string, pct int) string {
	return fmt.Sprintf("%s_%03d.jpg", key, pct)
}

// Dir 返回缓存目录（<root>/!tempvideoscreen）。
func Dir(root string) string {
	return filepath.Join(filepath.Clean(root), domain.VideoCacheDirName)
}

// Purge 删除 sourcePath 对应的全部缓存帧。
// 缓存目录不存在视为无事发生；单个帧删除失败即返回错误（上层记 warning 即可）。
func Purge(root, sourcePath string) error {
	dir := Dir(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	prefix := Key(sourcePath) + "_"
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
