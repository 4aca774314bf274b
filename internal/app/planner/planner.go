package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soaresden/photoorganizer/internal/domain"
)

// 重名后缀分配上限；耗尽按 collision_overflow 处理，绝不覆盖已有文件。
const maxAllocAttempts = 10000

// AutoFolderName 返回自动归类目录名（!Screenshots_YYYY / !ScreenRecorder_YYYY）；
// 非自动分类返回 ""。
func AutoFolderName(c domain.Category, year int) string {
	switch c {
	case domain.CategoryScreenshot:
		return domain.ScreenshotFolderPrefix + strconv.Itoa(year)
	case domain.CategoryRecorder:
		return domain.RecorderFolderPrefix + strconv.Itoa(year)
	default:
		return ""
	}
}

// ReadDestState 读取目标目录的现有文件名集合（只做 ReadDir，不读内容）。
// 目录不存在返回空集合且不报错：首次落子时目录由 apply 层创建。
func ReadDestState(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	return names, nil
}

// AllocName 在 used 内为 name 找一个空闲名：name、name_1、name_2 …（后缀在扩展名前）。
// 尝试耗尽返回 ok=false。
func AllocName(name string, used map[string]struct{}) (string, bool) {
	if _, taken := used[name]; !taken {
		return name, true
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 1; n <= maxAllocAttempts; n++ {
		cand := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, taken := used[cand]; !taken {
			return cand, true
		}
	}
	return "", false
}

// Planner 为一批待整理条目生成确定性计划。
//
// 规划是纯计算：不创建目录、不移动文件，可随时重算并预览给用户。
// 各目标目录的现有名集合按需读取并缓存：同一次规划内的多次分配互不重名。
type Planner struct {
	root string
	used map[string]map[string]struct{} // destDir -> 已占用名集合
}

func New(root string) *Planner {
	return &Planner{
		root: filepath.Clean(root),
		used: map[string]map[string]struct{}{},
	}
}

// Plan 为单个条目生成计划。
//
// 规则（顺序即优先级）：
// 1) 重复 + 截图类 → 送回收区（低价值副本，不占 !duplicate）
// 2) 重复 → 改道 !duplicate/
// 3) 缺年份 → pending(no_year)；缺目录 → pending(no_folder)
// 4) 其余 → YEAR/FOLDER/，重名追加 _N 后缀
func (p *Planner) Plan(e domain.MediaFile) (domain.EntryPlan, error) {
	if e.State == domain.StateDuplicate {
		if e.Category == domain.CategoryScreenshot {
			return domain.EntryPlan{
				Identity: e.Identity,
				Action:   domain.ActionTrash,
				Move:     domain.MovePlan{SrcAbs: e.AbsPath},
			}, nil
		}
		return p.planInto(e, filepath.Join(p.root, domain.DuplicateDirName), domain.ActionRoute)
	}

	if e.Year == 0 {
		return domain.EntryPlan{
			Identity: e.Identity,
			Action:   domain.ActionPending,
			Reason:   domain.ErrCodeNoYear,
		}, nil
	}
	if strings.TrimSpace(e.AssignedFolder) == "" {
		return domain.EntryPlan{
			Identity: e.Identity,
			Action:   domain.ActionPending,
			Reason:   domain.ErrCodeNoFolder,
		}, nil
	}

	dest := filepath.Join(p.root, strconv.Itoa(e.Year), e.AssignedFolder)
	return p.planInto(e, dest, domain.ActionMove)
}

func (p *Planner) planInto(e domain.MediaFile, destDir string, action domain.EntryAction) (domain.EntryPlan, error) {
	used, err := p.usedIn(destDir)
	if err != nil {
		return domain.EntryPlan{}, err
	}

	dstName, ok := AllocName(e.Identity, used)
	if !ok {
		return domain.EntryPlan{}, fmt.Errorf("目标重名后缀耗尽：%q -> %q", e.Identity, destDir)
	}
	used[dstName] = struct{}{}

	return domain.EntryPlan{
		Identity: e.Identity,
		Action:   action,
		Move: domain.MovePlan{
			SrcAbs: e.AbsPath,
			DstAbs: filepath.Join(destDir, dstName),
		},
	}, nil
}

func (p *Planner) usedIn(destDir string) (map[string]struct{}, error) {
	if u, ok := p.used[destDir]; ok {
		return u, nil
	}
	u, err := ReadDestState(destDir)
	if err != nil {
		return nil, err
	}
	p.used[destDir] = u
	return u, nil
}
