package domain

// Kind 按扩展名划分的媒体类型。
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// Category 是按文件名启发式得到的分类。
// 匹配规则集中在 classify 包，这里只定义取值。
type Category string

const (
	CategoryNormal     Category = "normal"
	CategoryScreenshot Category = "screenshot"
	CategoryRecorder   Category = "screen-recording"
)

// State 描述待整理条目在一次会话内的状态。
type State string

const (
	StateUnorganized   State = "unorganized"
	StatePendingAssign State = "pending-assignment"
	StatePlanned       State = "planned"
	StateApplied       State = "applied"
	StateDuplicate     State = "duplicate"
	StateIgnored       State = "ignored"
)

// MediaFile 描述一次扫描得到的待整理文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - Identity（文件名，区分大小写）是去重/冲突的唯一键；同一会话内不重复
// - AbsPath 必须是 clean + absolute
// - 扫描阶段只做 stat，不读文件内容（EXIF 回退是显式的例外，见 exifdate）
type MediaFile struct {
	Identity string // 文件名（含扩展名）
	AbsPath  string
	Ext      string // 小写，形如 ".jpg"
	Kind     Kind

	Year      int // 0 表示无法从文件名推导，规划前需用户补充
	Category  Category
	TakenUnix int64 // 文件名中的 YYYYMMDD_HHMMSS；无则 0，仅用于稳定排序

	// AssignedFolder 由用户指定（或自动分类时由规划层填入）；空表示未指定。
	AssignedFolder string

	State State

	Size    int64
	ModUnix int64
}
