package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/soaresden/photoorganizer/internal/domain"
)

// 年份取文件名中第一个 20xx 数字段（相机命名普遍形如 IMG_20240815_101530）。
// 完整时间戳 YYYYMMDD_HHMMSS 额外解析一次，用于待整理列表的稳定排序。
var (
	yearRE     = regexp.MustCompile(`20\d{2}`)
	datetimeRE = regexp.MustCompile(`\d{8}_\d{6}`)
)

// Result 是对单个文件名的语义分类。
type Result struct {
	Year      int // 0 表示无法推导，需用户补充
	Category  domain.Category
	TakenUnix int64 // 无完整时间戳则 0
}

// Classify 从文件名推导年份与分类。
//
// 纯函数：无 I/O、无副作用；同输入必同输出。
// 匹配规则是启发式的，集中在本包，便于整体替换而不触碰扫描/去重逻辑。
func Classify(filename string) Result {
	r := Result{Category: categoryOf(filename)}

	if m := yearRE.FindString(filename); m != "" {
		r.Year, _ = strconv.Atoi(m)
	}
	if m := datetimeRE.FindString(filename); m != "" {
		// time.Parse 顺带校验月/日/时分秒范围，非法时间戳直接忽略。
		if t, err := time.Parse("20060102_150405", m); err == nil {
			r.TakenUnix = t.Unix()
		}
	}
	return r
}

func categoryOf(filename string) domain.Category {
	low := strings.ToLower(filename)
	if strings.Contains(low, "screenshot") {
		return domain.CategoryScreenshot
	}
	if strings.Contains(low, "screen") && strings.Contains(low, "recorder") {
		return domain.CategoryRecorder
	}
	return domain.CategoryNormal
}

var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".tiff": {}, ".heic": {}, ".heif": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".flv": {},
	".mkv": {}, ".m4v": {}, ".3gp": {}, ".webm": {}, ".mts": {},
}

// KindOf 按小写扩展名划分媒体类型。
func KindOf(ext string) domain.Kind {
	if _, ok := imageExts[ext]; ok {
		return domain.KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return domain.KindVideo
	}
	return domain.KindOther
}
