package domain

import "strings"

// 保留目录：系统管理，不属于整理域，不参与冲突/重复判定。
const (
	DuplicateDirName  = "!duplicate"
	VideoCacheDirName = "!tempvideoscreen"
	TrashDirName      = "!trash"
)

// 自动归类目录前缀（按年份生成，如 !Screenshots_2024）。
const (
	ScreenshotFolderPrefix = "!Screenshots_"
	RecorderFolderPrefix   = "!ScreenRecorder_"
)

// OrganizedFolder 是 YEAR/ 下一个整理目录的快照（只做 ReadDir，不读内容）。
//
// 不变量：正常情况下同一 Identity 至多出现在一个非自动整理目录；≥2 即为冲突。
type OrganizedFolder struct {
	Year     int
	Name     string
	AbsPath  string
	ColorTag string // 由 Name 确定性推导，供交互层着色

	// Auto 表示 !Screenshots_* / !ScreenRecorder_* 这类自动归类目录。
	// 自动目录参与重复判定（截图自动清理规则），但不参与冲突判定。
	Auto bool

	// Members 是目录内现有文件名集合，用于 O(1) 重复判定。
	Members map[string]struct{}
}

// IsAutoDir 判断目录名是否为自动归类目录。
func IsAutoDir(name string) bool {
	return strings.HasPrefix(name, ScreenshotFolderPrefix) || strings.HasPrefix(name, RecorderFolderPrefix)
}

// IsReservedDir 判断目录名是否为保留目录（"!" 前缀但非自动归类目录）。
func IsReservedDir(name string) bool {
	return strings.HasPrefix(name, "!") && !IsAutoDir(name)
}
