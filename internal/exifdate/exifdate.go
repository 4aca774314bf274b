// Package exifdate 提供文件名无日期时的 EXIF 年份回退。
//
// 与 classify 的分界：classify 是纯函数；这里显式做 I/O，只有扫描层会调用。
package exifdate

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// Year 读取图片 EXIF 拍摄时间并返回年份。
// 任何失败（无 EXIF、损坏、不可读）都返回 ok=false，不视为错误：
// 回退失败只是让条目保持“缺年份”，等用户补充。
func Year(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 0, false
	}
	t, err := x.DateTime()
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}
