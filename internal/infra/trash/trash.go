// Package trash 提供相机目录下的可恢复回收区（!trash/）。
//
// 契约：所有“删除”都是移动到回收区，绝不直接 unlink，用户永远有后悔的机会。
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soaresden/photoorganizer/internal/domain"
	"github.com/soaresden/photoorganizer/internal/infra/fsx"
)

// 回收区内重名时的后缀分配上限；超过按失败处理。
const maxAllocAttempts = 10000

// Bin 是根目录下的回收区。零值不可用，必须经 New 构造。
type Bin struct {
	dir string
}

func New(root string) Bin {
	return Bin{dir: filepath.Join(filepath.Clean(root), domain.TrashDirName)}
}

// Dir 返回回收区目录的绝对路径。
func (b Bin) Dir() string { return b.dir }

// Put 把 path 移入回收区并返回落点；重名时追加 _N 后缀。
// 跨盘（EXDEV）等错误原样返回，交上层映射为条目失败。
func (b Bin) Put(path string) (string, error) {
	if err := fsx.EnsureDir(b.dir); err != nil {
		return "", err
	}

	name := filepath.Base(path)
	dst := filepath.Join(b.dir, name)

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		if _, err := os.Lstat(dst); os.IsNotExist(err) {
			break
		}
		if n > maxAllocAttempts {
			return "", fmt.Errorf("回收区重名后缀耗尽：%q", name)
		}
		dst = filepath.Join(b.dir, fmt.Sprintf("%s_%d%s", base, n, ext))
	}

	if err := fsx.Rename(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}
