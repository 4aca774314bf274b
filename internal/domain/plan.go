package domain

// MovePlan 规划一次文件移动（只描述 src/dst；真正执行在 apply 层）。
type MovePlan struct {
	SrcAbs string
	DstAbs string
}

// EntryAction 是规划阶段对一个文件的处置。
type EntryAction string

const (
	ActionMove    EntryAction = "move"    // 移动到 YEAR/FOLDER/
	ActionRoute   EntryAction = "route"   // 重复：移动到 !duplicate/
	ActionTrash   EntryAction = "trash"   // 截图重复：送回收区
	ActionPending EntryAction = "pending" // 缺少年份或目录，等用户补充
)

// EntryPlan 是单个文件的最小执行计划。规划是纯计算，可随时重算并预览。
type EntryPlan struct {
	Identity string
	Action   EntryAction
	Move     MovePlan // Action 为 move/route 时有效；trash 时只用 SrcAbs
	Reason   string   // Action 为 pending 时的缺失说明（error code）
}
