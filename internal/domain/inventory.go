package domain

// Inventory 是一次扫描产出的完整快照。
//
// 约束：扫描期间不对外暴露中间状态；返回即是某一时刻文件系统的一致视图。
// 快照由扫描方独占构建，后续仅由 run 层串行消费（单写者模型）。
type Inventory struct {
	Root    string
	Pending []MediaFile
	Folders []OrganizedFolder

	// Warnings 记录被跳过的不可读子目录等非致命问题（根目录不可读才是致命错误）。
	Warnings []string
}

// Conflict 表示同一 Identity 出现在 ≥2 个非自动整理目录，需要用户显式处理。
type Conflict struct {
	Identity string   `json:"identity"`
	Folders  []string `json:"folders"` // "YEAR/NAME"，已排序
}
